package main

import (
	"context"
	"credential-registry/pkg/logger"
	"credential-registry/src/registry"
	"credential-registry/src/storage"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

func validatePrincipal(role string, p registry.Principal) error {
	if _, err := solana.PublicKeyFromBase58(string(p)); err != nil {
		return fmt.Errorf("registry %s %q is not a base58 public key: %w", role, p, err)
	}
	return nil
}

func loadVerifier(config VerifierConfig) (registry.Verifier, error) {
	var vk []byte
	if config.Kind == registry.VerifierGroth16 {
		var err error
		if vk, err = os.ReadFile(config.VerifyingKeyPath); err != nil {
			return nil, fmt.Errorf("read verifying key: %w", err)
		}
	}
	return registry.ResolveVerifier(config.Kind, vk)
}

// buildRegistry restores the registry from repository and publishes the
// seed root when the store holds no epochs yet.
func buildRegistry(ctx context.Context, settings RegistrySettings, repository storage.RegistryRepository) (*registry.Registry, error) {
	if err := validatePrincipal("issuer", settings.Issuer); err != nil {
		return nil, err
	}
	if err := validatePrincipal("owner", settings.Owner); err != nil {
		return nil, err
	}

	verifier, err := loadVerifier(settings.Verifier)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(settings.Issuer, settings.Owner, verifier,
		registry.WithStore(repository),
		registry.WithLogger(logger.Default().WithFields(logger.LoggerArg{Key: "component", Value: "registry"})),
	)
	if err != nil {
		return nil, err
	}
	if err := reg.Restore(ctx); err != nil {
		return nil, err
	}

	if settings.SeedRoot != "" && reg.CurrentEpoch() == 0 {
		root, err := registry.ParseHash256(settings.SeedRoot)
		if err != nil {
			return nil, fmt.Errorf("seed root: %w", err)
		}
		if _, err := reg.UpdateRoot(ctx, settings.Issuer, root); err != nil {
			return nil, fmt.Errorf("publish seed root: %w", err)
		}
	}

	return reg, nil
}
