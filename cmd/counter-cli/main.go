package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"counter-contract/go-backend/internal/contract"
	"counter-contract/go-backend/internal/domains/rpckit"
	"counter-contract/go-backend/internal/host"
	"counter-contract/go-backend/internal/identity"
	"counter-contract/go-backend/internal/rpcclient"
	"counter-contract/go-backend/pkg/models"
)

const (
	exitOK               = 0
	exitInvalidInput     = 10
	exitNetworkFailed    = 20
	exitContractRejected = 30
	exitUnauthorized     = 40
)

const defaultRPCAddr = "127.0.0.1:26657"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitInvalidInput)
	}

	switch os.Args[1] {
	case "keygen":
		runKeygen(os.Args[2:])
	case "instantiate":
		runInstantiate(os.Args[2:])
	case "execute":
		runExecute(os.Args[2:])
	case "query":
		runQuery(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	default:
		printUsage()
		os.Exit(exitInvalidInput)
	}
}

type rpcFlags struct {
	addr    *string
	token   *string
	timeout *time.Duration
}

func addRPCFlags(fs *flag.FlagSet) rpcFlags {
	addr := os.Getenv("COUNTER_RPC_ADDR")
	if addr == "" {
		addr = defaultRPCAddr
	}
	return rpcFlags{
		addr:    fs.String("rpc-addr", addr, "host rpc address host:port or URL"),
		token:   fs.String("rpc-token", os.Getenv("COUNTER_RPC_TOKEN"), "host rpc token"),
		timeout: fs.Duration("timeout", 10*time.Second, "request timeout"),
	}
}

func (f rpcFlags) client() (*rpcclient.Client, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), *f.timeout)
	return rpcclient.New(*f.addr, *f.token), ctx, cancel
}

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "derive from an existing mnemonic instead of generating one")
	count := fs.Int("accounts", 4, "number of accounts to derive")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	words := strings.TrimSpace(*mnemonic)
	generated := false
	if words == "" {
		var err error
		words, err = identity.NewMnemonic()
		if err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
			return
		}
		generated = true
	}
	keyring, err := identity.NewKeyring(words, *count)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
		return
	}
	accounts := make([]models.Account, 0, *count)
	for _, a := range keyring.Accounts() {
		accounts = append(accounts, models.Account{Name: a.Name, Address: a.Address, PublicKey: a.PublicKey})
	}
	out := map[string]any{"accounts": accounts}
	if generated {
		out["mnemonic"] = words
	}
	if err := printJSON(out); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	os.Exit(exitOK)
}

func runInstantiate(args []string) {
	fs := flag.NewFlagSet("instantiate", flag.ExitOnError)
	rf := addRPCFlags(fs)
	sender := fs.String("sender", "", "sender account name or address")
	count := fs.Int("count", 0, "initial counter value")
	mnemonic := addMnemonicFlag(fs)
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	if strings.TrimSpace(*sender) == "" {
		writeStderrln("sender is required", exitInvalidInput)
	}
	if *count < math.MinInt32 || *count > math.MaxInt32 {
		writeStderrln("count must fit in a signed 32-bit integer", exitInvalidInput)
	}
	msg := contract.InstantiateMsg{Count: int32(*count)}

	client, ctx, cancel := rf.client()
	defer cancel()
	from, sig := signOrExit(ctx, client, *mnemonic, host.EntryInstantiate, *sender, msg)
	tx, err := client.Instantiate(ctx, from, msg, sig)
	printTxOrExit(tx, err)
}

func runExecute(args []string) {
	fs := flag.NewFlagSet("execute", flag.ExitOnError)
	rf := addRPCFlags(fs)
	sender := fs.String("sender", "", "sender account name or address")
	msg := fs.String("msg", "", `execute message json, e.g. {"increment":{}}`)
	mnemonic := addMnemonicFlag(fs)
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	if strings.TrimSpace(*sender) == "" {
		writeStderrln("sender is required", exitInvalidInput)
	}
	raw := parseMsg(*msg)

	client, ctx, cancel := rf.client()
	defer cancel()
	if strings.TrimSpace(*mnemonic) == "" {
		tx, err := client.Execute(ctx, *sender, raw, nil)
		printTxOrExit(tx, err)
		return
	}
	// Signed calls send the typed message so both sides sign identical JSON.
	var typed contract.ExecuteMsg
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&typed); err != nil {
		writeStderrln("msg is not an execute message: "+err.Error(), exitInvalidInput)
	}
	from, sig := signOrExit(ctx, client, *mnemonic, host.EntryExecute, *sender, typed)
	tx, err := client.Execute(ctx, from, typed, sig)
	printTxOrExit(tx, err)
}

func addMnemonicFlag(fs *flag.FlagSet) *string {
	return fs.String("mnemonic", os.Getenv("COUNTER_MNEMONIC"), "sign the call with an account derived from this mnemonic")
}

// signOrExit returns the sender unchanged and no signature when mnemonic is
// empty. Otherwise it signs msg for the host's chain and returns the
// account address to send as.
func signOrExit(ctx context.Context, client *rpcclient.Client, mnemonic, entry, sender string, msg any) (string, *models.CallSignature) {
	words := strings.TrimSpace(mnemonic)
	if words == "" {
		return sender, nil
	}
	keyring, err := identity.NewKeyring(words, identity.MaxAccounts)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	block, err := client.Block(ctx)
	if err != nil {
		writeStderrln(err.Error(), exitCodeFor(err))
	}
	from, sig, err := host.SignCall(keyring, block.ChainID, entry, sender, msg)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	return from, &sig
}

func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	rf := addRPCFlags(fs)
	msg := fs.String("msg", `{"get_count":{}}`, "query message json")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	raw := parseMsg(*msg)

	client, ctx, cancel := rf.client()
	defer cancel()
	result, err := client.Query(ctx, raw)
	if err != nil {
		writeStderrln(err.Error(), exitCodeFor(err))
		return
	}
	if err := printJSON(result); err != nil {
		writeStderrln(err.Error(), exitNetworkFailed)
	}
	os.Exit(exitOK)
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	rf := addRPCFlags(fs)
	asJSON := fs.Bool("json", false, "emit json")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	client, ctx, cancel := rf.client()
	defer cancel()
	block, err := client.Block(ctx)
	if err != nil {
		writeStderrln(err.Error(), exitCodeFor(err))
		return
	}
	accounts, err := client.Accounts(ctx)
	if err != nil {
		writeStderrln(err.Error(), exitCodeFor(err))
		return
	}
	if *asJSON {
		if err := printJSON(map[string]any{"block": block, "accounts": accounts}); err != nil {
			writeStderrln(err.Error(), exitNetworkFailed)
		}
	} else {
		writeStdoutf(exitNetworkFailed, "chain_id=%s height=%d time=%s accounts=%d\n",
			block.ChainID, block.Height, block.Time, len(accounts))
		for _, a := range accounts {
			writeStdoutf(exitNetworkFailed, "  %s %s\n", a.Name, a.Address)
		}
	}
	os.Exit(exitOK)
}

func parseMsg(raw string) json.RawMessage {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		writeStderrln("msg is required", exitInvalidInput)
	}
	if !json.Valid([]byte(raw)) {
		writeStderrln("msg must be valid json", exitInvalidInput)
	}
	return json.RawMessage(raw)
}

func printTxOrExit(tx models.TxResult, err error) {
	if err != nil {
		writeStderrln(err.Error(), exitCodeFor(err))
		return
	}
	if err := printJSON(tx); err != nil {
		writeStderrln(err.Error(), exitNetworkFailed)
	}
	os.Exit(exitOK)
}

func exitCodeFor(err error) int {
	var rpcErr *rpckit.Error
	switch {
	case errors.As(err, &rpcErr):
		switch rpcErr.Code {
		case rpckit.CodeInvalidParams, rpckit.CodeInvalidMessage, rpckit.CodeInvalidRequest:
			return exitInvalidInput
		case rpckit.CodeUnauthorized:
			return exitUnauthorized
		default:
			return exitContractRejected
		}
	case errors.Is(err, rpcclient.ErrRPCStatus):
		return exitUnauthorized
	default:
		return exitNetworkFailed
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	writeStdoutln(exitInvalidInput, "counter-cli <command> [flags]")
	writeStdoutln(exitInvalidInput, "commands:")
	writeStdoutln(exitInvalidInput, "  keygen       [--mnemonic words] [--accounts n]")
	writeStdoutln(exitInvalidInput, "  instantiate  --sender name|address [--count n] [--mnemonic words] [--rpc-addr host:port --rpc-token token]")
	writeStdoutln(exitInvalidInput, "  execute      --sender name|address --msg json [--mnemonic words] [--rpc-addr host:port --rpc-token token]")
	writeStdoutln(exitInvalidInput, "  query        [--msg json] [--rpc-addr host:port --rpc-token token]")
	writeStdoutln(exitInvalidInput, "  status       [--json] [--rpc-addr host:port --rpc-token token]")
}

func writeStdoutln(exitCode int, line string) {
	if _, err := fmt.Fprintln(os.Stdout, line); err != nil {
		os.Exit(exitCode)
	}
}

func writeStdoutf(exitCode int, format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stdout, format, args...); err != nil {
		os.Exit(exitCode)
	}
}

func writeStderrln(line string, exitCode int) {
	if _, err := fmt.Fprintln(os.Stderr, line); err != nil {
		os.Exit(exitCode)
	}
	os.Exit(exitCode)
}
