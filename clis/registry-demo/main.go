package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"credential-registry/src/registryapi"

	"github.com/gagliardetto/solana-go"
)

const defaultBase = "http://localhost:9000"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	base := os.Getenv("REGISTRY_API_BASE")
	if base == "" {
		base = defaultBase
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	// Local
	case "keygen":
		keygen(args)
	case "prove":
		prove(args)

	// Signed
	case "publish-root":
		fs, key := signedFlags("publish-root")
		root := fs.String("root", "", "root to publish")
		fs.Parse(args)
		doSigned(http.MethodPost, base, "/v1/registry/roots", mustKey(*key), registryapi.UpdateRootRequest{Root: *root})
	case "set-verifier":
		fs, key := signedFlags("set-verifier")
		kind := fs.String("kind", "groth16", "mock or groth16")
		vkPath := fs.String("vk", "membership.vk", "verifying key file for groth16")
		fs.Parse(args)
		req := registryapi.SetVerifierRequest{Kind: *kind}
		if *kind == "groth16" {
			req.VerifyingKeyB64 = base64.StdEncoding.EncodeToString(mustRead(*vkPath))
		}
		doSigned(http.MethodPut, base, "/v1/registry/verifier", mustKey(*key), req)
	case "submit":
		fs, key := signedFlags("submit")
		in := fs.String("in", "submission.json", "request produced by prove")
		fs.Parse(args)
		var req registryapi.VerifyProofRequest
		if err := json.Unmarshal(mustRead(*in), &req); err != nil {
			fail("parse submission:", err)
		}
		doSigned(http.MethodPost, base, "/v1/registry/proofs", mustKey(*key), req)

	// Public
	case "signal":
		fs := flag.NewFlagSet("signal", flag.ExitOnError)
		app := fs.String("app", "", "application id")
		policy := fs.String("policy", "", "policy id")
		fs.Parse(args)
		do(http.MethodPost, base+"/v1/signals", registryapi.SignalRequest{AppId: *app, PolicyId: *policy}, nil)
	case "root":
		do(http.MethodGet, base+"/v1/registry/roots/current", nil, nil)
	case "roots":
		do(http.MethodGet, base+"/v1/registry/roots", nil, nil)
	case "root-status":
		do(http.MethodGet, base+"/v1/registry/roots/"+mustArg(args, 0), nil, nil)
	case "nullifier":
		do(http.MethodGet, base+"/v1/registry/nullifiers/"+mustArg(args, 0), nil, nil)
	case "verifier":
		do(http.MethodGet, base+"/v1/registry/verifier", nil, nil)
	case "events":
		fs := flag.NewFlagSet("events", flag.ExitOnError)
		from := fs.Uint64("from", 1, "first seq")
		limit := fs.Int("limit", 100, "page size")
		fs.Parse(args)
		do(http.MethodGet, fmt.Sprintf("%s/v1/registry/events?from=%d&limit=%d", base, *from, *limit), nil, nil)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Usage: registry-demo <command> [options]

Local:
  keygen        -out issuer.key                         new ed25519 key, prints the public key
  prove         -secret s -members a,b,c -app A -policy P
                [-vk membership.vk] [-out submission.json]  build the member tree, set up and prove

Signed (-key <file>):
  publish-root  -root 0x...                             POST /v1/registry/roots
  set-verifier  -kind groth16 -vk membership.vk         PUT  /v1/registry/verifier
  submit        -in submission.json                     POST /v1/registry/proofs

Public:
  signal        -app A -policy P                        POST /v1/signals
  root                                                  GET  /v1/registry/roots/current
  roots                                                 GET  /v1/registry/roots
  root-status   <root>                                  GET  /v1/registry/roots/:root
  nullifier     <nullifier>                             GET  /v1/registry/nullifiers/:nullifier
  verifier                                              GET  /v1/registry/verifier
  events        [-from 1] [-limit 100]                  GET  /v1/registry/events

Environment:
  REGISTRY_API_BASE   override default http://localhost:9000`)
}

func fail(v ...any) {
	fmt.Fprintln(os.Stderr, v...)
	os.Exit(1)
}

func mustArg(args []string, idx int) string {
	if len(args) <= idx {
		fmt.Fprintf(os.Stderr, "missing argument %d\n", idx+1)
		usage()
		os.Exit(1)
	}
	return args[idx]
}

func mustRead(path string) []byte {
	b, err := os.ReadFile(path)
	if err != nil {
		fail("read:", err)
	}
	return b
}

func signedFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	key := fs.String("key", "", "base58 private key file")
	return fs, key
}

func mustKey(path string) solana.PrivateKey {
	if path == "" {
		fail("missing -key")
	}
	key, err := solana.PrivateKeyFromBase58(strings.TrimSpace(string(mustRead(path))))
	if err != nil {
		fail("parse key:", err)
	}
	return key
}

func keygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", "", "file for the base58 private key")
	fs.Parse(args)

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		fail("keygen:", err)
	}
	if *out != "" {
		if err := os.WriteFile(*out, []byte(key.String()), 0o600); err != nil {
			fail("write key:", err)
		}
	}
	fmt.Println(key.PublicKey().String())
}

func prove(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	secret := fs.String("secret", "", "prover secret")
	members := fs.String("members", "", "comma separated member secrets, the prover's included")
	app := fs.String("app", "", "application id")
	policy := fs.String("policy", "", "policy id")
	vkOut := fs.String("vk", "membership.vk", "verifying key output")
	out := fs.String("out", "submission.json", "request output")
	fs.Parse(args)

	result, err := proveMembership(*secret, strings.Split(*members, ","), *app, *policy)
	if err != nil {
		fail("prove:", err)
	}

	if err := os.WriteFile(*vkOut, result.VerifyingKey, 0o644); err != nil {
		fail("write verifying key:", err)
	}
	body, _ := json.MarshalIndent(result.Request, "", "  ")
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		fail("write submission:", err)
	}

	fmt.Printf("root:        %s\n", result.Root)
	fmt.Printf("nullifier:   %s\n", result.Nullifier)
	fmt.Printf("signal hash: %s\n", result.SignalHash)
	fmt.Printf("wrote %s and %s\n", *vkOut, *out)
}

func do(method, url string, body any, prepare func(*http.Request) error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			fail("encode:", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		fail("req:", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prepare != nil {
		if err := prepare(req); err != nil {
			fail("sign:", err)
		}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fail("do:", err)
	}
	defer res.Body.Close()

	fmt.Printf("-> %s %s\n", method, url)
	fmt.Printf("<- %d %s\n\n", res.StatusCode, http.StatusText(res.StatusCode))
	io.Copy(os.Stdout, res.Body)
	fmt.Println()
}

func doSigned(method, base, path string, key solana.PrivateKey, body any) {
	do(method, base+path, body, func(req *http.Request) error {
		return registryapi.SignRequest(req, key, time.Now())
	})
}
