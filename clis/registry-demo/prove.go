package main

import (
	"credential-registry/pkg/zkp"
	"credential-registry/src/registry"
	"credential-registry/src/registryapi"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

type proveResult struct {
	Root         registry.Hash256
	Nullifier    registry.Hash256
	SignalHash   registry.Hash256
	VerifyingKey []byte
	Request      registryapi.VerifyProofRequest
}

// proveMembership builds the issuer tree from members, runs a fresh setup
// and proves that secret is a member bound to (app, policy).
func proveMembership(secret string, members []string, app, policy string) (*proveResult, error) {
	if secret == "" || app == "" || policy == "" {
		return nil, errors.New("secret, app and policy are required")
	}

	tree := zkp.NewCredentialTree()
	index := -1
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		i, err := tree.Add(zkp.HashToField(m))
		if err != nil {
			return nil, err
		}
		if m == secret {
			index = i
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("secret is not among the %d members", tree.Len())
	}

	path, err := tree.Path(index)
	if err != nil {
		return nil, err
	}

	provingSystem, err := zkp.SetupMembership()
	if err != nil {
		return nil, err
	}
	bundle, err := provingSystem.Prove(zkp.MembershipWitness{
		Secret:   zkp.HashToField(secret),
		AppID:    zkp.HashToField(app),
		PolicyID: zkp.HashToField(policy),
		Root:     tree.Root(),
		Path:     path,
	})
	if err != nil {
		return nil, err
	}

	vk, err := provingSystem.VerifyingKeyBytes()
	if err != nil {
		return nil, err
	}
	blob, err := zkp.NewSubmission(bundle).SerializeBorsh()
	if err != nil {
		return nil, err
	}

	return &proveResult{
		Root:         registry.Hash256(bundle.PublicInputs[0]),
		SignalHash:   registry.Hash256(bundle.PublicInputs[1]),
		Nullifier:    registry.Hash256(bundle.PublicInputs[2]),
		VerifyingKey: vk,
		Request: registryapi.VerifyProofRequest{
			SubmissionB64:  base64.StdEncoding.EncodeToString(blob),
			ExpectedSignal: &registryapi.ExpectedSignal{AppId: app, PolicyId: policy},
		},
	}, nil
}
