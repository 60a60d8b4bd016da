package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/warden/digest"
	"xdao.co/warden/identity"
	"xdao.co/warden/internal/config"
	"xdao.co/warden/keys"
	"xdao.co/warden/model"
	"xdao.co/warden/receipt"
	"xdao.co/warden/rpc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "account":
		return cmdAccount(args[1:], out, errOut)
	case "batch":
		return cmdBatch(args[1:], out, errOut)
	case "guardian":
		return cmdGuardian(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "op":
		return cmdOp(args[1:], out, errOut)
	case "receipt":
		return cmdReceipt(args[1:], out, errOut)
	case "recover":
		return cmdRecover(args[1:], out, errOut)
	case "transfer":
		return cmdTransfer(args[1:], out, errOut)
	case "upgrade":
		return cmdUpgrade(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-warden: self-custodial account and guardian recovery CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-warden key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-warden key derive-guardian --from <name> --label <label> [--force]")
	fmt.Fprintln(w, "  xdao-warden key list")
	fmt.Fprintln(w, "  xdao-warden key show --name <name> [--label <label>]")
	fmt.Fprintln(w, "  xdao-warden account create --account <identity> --owner <identity> [--guardian <identity> ...] [--delegated-key <key> ...]")
	fmt.Fprintln(w, "  xdao-warden account get --account <identity>")
	fmt.Fprintln(w, "  xdao-warden guardian add --account <identity> --caller <identity> [--guardian <identity> ...] [--delegated-key <key> ...]")
	fmt.Fprintln(w, "  xdao-warden guardian remove --account <identity> --caller <identity> [--guardian-id <64hex> ...] [--guardian <identity> ...]")
	fmt.Fprintln(w, "  xdao-warden guardian check --account <identity> (--guardian-id <64hex> | --guardian <identity>)")
	fmt.Fprintln(w, "  xdao-warden guardian params --account <identity>")
	fmt.Fprintln(w, "  xdao-warden transfer propose --account <identity> --caller <identity> --new-owner <identity>")
	fmt.Fprintln(w, "  xdao-warden transfer accept --account <identity> --caller <identity>")
	fmt.Fprintln(w, "  xdao-warden recover vote --account <identity> --new-owner <identity> (--seed-hex <64hex> | --signer <name> [--label <label>] | --key-file <path>) [--chain-id <n>]")
	fmt.Fprintln(w, "  xdao-warden recover submit --account <identity> --new-owner <identity> --vote <identity>:<sighex> [--vote ...]")
	fmt.Fprintln(w, "  xdao-warden op digest --account <identity> --tag <tag> [--payload-file <path> | --payload-hex <hex>] [--chain-id <n>]")
	fmt.Fprintln(w, "  xdao-warden op sign --digest <64hex> (--seed-hex <64hex> | --signer <name> [--label <label>] | --key-file <path>) [--raw]")
	fmt.Fprintln(w, "  xdao-warden op authorize --account <identity> --caller <identity> --digest <64hex> --sig <hex>")
	fmt.Fprintln(w, "  xdao-warden op check-sig --account <identity> --digest <64hex> --sig <hex>")
	fmt.Fprintln(w, "  xdao-warden upgrade --account <identity> --caller <identity> --implementation <ref>")
	fmt.Fprintln(w, "  xdao-warden batch --account <identity> --caller <identity> --call <target>[=<datahex>] [--call ...]")
	fmt.Fprintln(w, "  xdao-warden receipt cid <file>")
	fmt.Fprintln(w, "  xdao-warden receipt get --dir <dir> --cid <cid> [--out <file>]")
	fmt.Fprintln(w, "  xdao-warden receipt list --dir <dir>")
	fmt.Fprintln(w, "  xdao-warden receipt verify --cid <cid> <file>")
	fmt.Fprintln(w, "  xdao-warden receipt export --dir <dir> [--out <file>] [--cid <cid> ...]")
	fmt.Fprintln(w, "  xdao-warden receipt import --dir <dir> --in <file> [--ignore-unknown]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - identities are 20 bytes written as 0x + 40 hex chars")
	fmt.Fprintln(w, "  - server commands read ~/.xdao/warden/cli.toml; --server/--token/--timeout override it")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) secp256k1 seed")
	fmt.Fprintln(w, "  - key files live under ~/.xdao/warden/keys (0600 private key files)")
	fmt.Fprintln(w, "  - recover vote prints <guardian>:<sighex> on stdout; pass it to recover submit --vote")
	fmt.Fprintln(w, "  - op sign signs the operation envelope; --raw signs the bare digest (the check-sig form)")
	fmt.Fprintln(w, "  - op authorize exits 1 when rejected; op check-sig exits 1 when invalid;")
	fmt.Fprintln(w, "    guardian check exits 1 when the guardian is not registered")
	fmt.Fprintln(w, "  - receipt export writes a deterministic tar bundle (index.json included by default)")
}

// clientFlags carries the connection flags shared by every server command.
// Profile values apply first; explicit flags win.
type clientFlags struct {
	profile string
	server  string
	token   string
	timeout time.Duration
}

func (c *clientFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.profile, "profile", "", "Profile file (default ~/.xdao/warden/cli.toml)")
	fs.StringVar(&c.server, "server", "", "Daemon address (default from profile)")
	fs.StringVar(&c.token, "token", "", "Bearer token (default from profile)")
	fs.DurationVar(&c.timeout, "timeout", 0, "Per-RPC timeout (default from profile)")
}

func (c *clientFlags) dial() (*rpc.Client, error) {
	p, err := config.LoadProfile(c.profile)
	if err != nil {
		return nil, err
	}
	if c.server != "" {
		p.Server = c.server
	}
	if c.token != "" {
		p.AuthToken = c.token
	}
	if c.timeout > 0 {
		p.Timeout = c.timeout
	}

	cl, err := rpc.Dial(p.Server, rpc.DialOptions{Timeout: p.Timeout, Token: p.AuthToken})
	if err != nil {
		return nil, err
	}
	cl.Timeout = p.Timeout
	return cl, nil
}

// keysFlags locates the local key store. The profile supplies defaults for
// the directory and the chain ID used by offline signing commands.
type keysFlags struct {
	profile string
	dir     string
}

func (k *keysFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&k.profile, "profile", "", "Profile file (default ~/.xdao/warden/cli.toml)")
	fs.StringVar(&k.dir, "keys-dir", "", "Key directory (default from profile, else ~/.xdao/warden/keys)")
}

func (k *keysFlags) open() (*keys.Store, config.Profile, error) {
	p, err := config.LoadProfile(k.profile)
	if err != nil {
		return nil, config.Profile{}, err
	}
	dir := k.dir
	if dir == "" {
		dir = p.KeysDir
	}
	ks, err := keys.Open(dir)
	if err != nil {
		return nil, config.Profile{}, err
	}
	return ks, p, nil
}

// signerFlags selects a signing seed the same way for every signing command:
// an inline hex seed, a stored key, or a seed file.
type signerFlags struct {
	seedHex string
	signer  string
	label   string
	keyFile string
}

func (s *signerFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&s.seedHex, "seed-hex", "", "secp256k1 seed as 64 hex chars")
	fs.StringVar(&s.signer, "signer", "", "Use a stored key by name (from 'xdao-warden key init')")
	fs.StringVar(&s.label, "label", "", "When using --signer, use the derived guardian key with this label")
	fs.StringVar(&s.keyFile, "key-file", "", "Path to a seed file created by 'xdao-warden key init/derive-guardian'")
}

func (s *signerFlags) check(errOut io.Writer) bool {
	if s.seedHex == "" && s.signer == "" && s.keyFile == "" {
		fmt.Fprintln(errOut, "missing signer: use --seed-hex, --signer, or --key-file")
		return false
	}
	if s.seedHex != "" && (s.signer != "" || s.keyFile != "") {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --signer or --key-file")
		return false
	}
	if s.signer != "" && s.keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --signer cannot be combined with --key-file")
		return false
	}
	return true
}

func cmdAccount(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden account <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: create, get")
		return 2
	}
	switch args[0] {
	case "create":
		return cmdAccountCreate(args[1:], out, errOut)
	case "get":
		return cmdAccountGet(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown account subcommand: %s\n", args[0])
		return 2
	}
}

func cmdAccountCreate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("account create", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var owner string
	var guardians identityList
	var delegated stringList
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&owner, "owner", "", "Initial owner identity")
	fs.Var(&guardians, "guardian", "Guardian identity (repeatable)")
	fs.Var(&delegated, "delegated-key", "Delegated key resolved to a guardian identity server-side (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "owner", owner) {
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.CreateAccount(model.CreateAccountRequest{
		Account:       account,
		Owner:         owner,
		Guardians:     guardians,
		DelegatedKeys: delegated,
	})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdAccountGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("account get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	fs.StringVar(&account, "account", "", "Account identity")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) {
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.GetAccount(account)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdBatch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var calls stringList
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the owner)")
	fs.Var(&calls, "call", "Batch entry as <target>[=<datahex>] (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}
	if len(calls) == 0 {
		fmt.Fprintln(errOut, "missing --call")
		return 2
	}

	parsed := make([]model.Call, 0, len(calls))
	for _, c := range calls {
		target, data, hasData := strings.Cut(c, "=")
		target = strings.TrimSpace(target)
		if target == "" {
			fmt.Fprintf(errOut, "invalid --call (expected <target>[=<datahex>]): %q\n", c)
			return 2
		}
		call := model.Call{Target: target}
		if hasData {
			b, derr := parseHexBytes(data)
			if derr != nil {
				fmt.Fprintf(errOut, "invalid --call data: %v\n", derr)
				return 2
			}
			call.Data = b
		}
		parsed = append(parsed, call)
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	results, err := cl.ExecuteBatch(model.ExecuteBatchRequest{Account: account, Caller: caller, Calls: parsed})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, results)
}

func cmdGuardian(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden guardian <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: add, remove, check, params")
		return 2
	}
	switch args[0] {
	case "add":
		return cmdGuardianAdd(args[1:], out, errOut)
	case "remove":
		return cmdGuardianRemove(args[1:], out, errOut)
	case "check":
		return cmdGuardianCheck(args[1:], out, errOut)
	case "params":
		return cmdGuardianParams(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown guardian subcommand: %s\n", args[0])
		return 2
	}
}

func cmdGuardianAdd(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("guardian add", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var guardians identityList
	var delegated stringList
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the owner)")
	fs.Var(&guardians, "guardian", "Guardian identity (repeatable)")
	fs.Var(&delegated, "delegated-key", "Delegated key resolved to a guardian identity server-side (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}
	if len(guardians) == 0 && len(delegated) == 0 {
		fmt.Fprintln(errOut, "missing --guardian or --delegated-key")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.AddGuardians(model.AddGuardiansRequest{
		Account:       account,
		Caller:        caller,
		Guardians:     guardians,
		DelegatedKeys: delegated,
	})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdGuardianRemove(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("guardian remove", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var guardianIDs stringList
	var guardians identityList
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the owner)")
	fs.Var(&guardianIDs, "guardian-id", "Registry key of the guardian to remove (repeatable)")
	fs.Var(&guardians, "guardian", "Guardian identity; its registry key is derived locally (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}

	ids := make([]string, 0, len(guardianIDs)+len(guardians))
	for _, s := range guardianIDs {
		if _, perr := identity.ParseGuardianID(s); perr != nil {
			fmt.Fprintf(errOut, "invalid --guardian-id: %v\n", perr)
			return 2
		}
		ids = append(ids, s)
	}
	for _, s := range guardians {
		ids = append(ids, identity.GuardianIDOf(identity.MustParse(s)).String())
	}
	if len(ids) == 0 {
		fmt.Fprintln(errOut, "missing --guardian-id or --guardian")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.RemoveGuardians(model.RemoveGuardiansRequest{Account: account, Caller: caller, GuardianIDs: ids})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdGuardianCheck(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("guardian check", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var guardianID string
	var guardian string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&guardianID, "guardian-id", "", "Registry key of the guardian")
	fs.StringVar(&guardian, "guardian", "", "Guardian identity; its registry key is derived locally")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) {
		return 2
	}

	var gid string
	switch {
	case guardianID != "" && guardian != "":
		fmt.Fprintln(errOut, "conflicting flags: use --guardian-id or --guardian, not both")
		return 2
	case guardianID != "":
		if _, perr := identity.ParseGuardianID(guardianID); perr != nil {
			fmt.Fprintf(errOut, "invalid --guardian-id: %v\n", perr)
			return 2
		}
		gid = guardianID
	case guardian != "":
		id, perr := identity.Parse(guardian)
		if perr != nil {
			fmt.Fprintf(errOut, "invalid --guardian: %v\n", perr)
			return 2
		}
		gid = identity.GuardianIDOf(id).String()
	default:
		fmt.Fprintln(errOut, "missing --guardian-id or --guardian")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	registered, err := cl.IsGuardian(account, gid)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if !registered {
		_, _ = fmt.Fprintln(out, "not registered")
		return 1
	}
	_, _ = fmt.Fprintln(out, "registered")
	return 0
}

func cmdGuardianParams(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("guardian params", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	fs.StringVar(&account, "account", "", "Account identity")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) {
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	params, err := cl.GuardianParams(account)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "Guardians: %d\n", params.Count)
	fmt.Fprintf(out, "Threshold: %d\n", params.Threshold)
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive-guardian":
		return cmdKeyDeriveGuardian(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "show":
		return cmdKeyShow(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-warden key: minimal local key management (KMS-lite)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-warden key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-warden key derive-guardian --from <name> --label <label> [--force]")
	fmt.Fprintln(w, "  xdao-warden key list")
	fmt.Fprintln(w, "  xdao-warden key show --name <name> [--label <label>]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)

	var name string
	var seedHex string
	var force bool
	fs.StringVar(&name, "name", "", "Key name (directory under the key store)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional secp256k1 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	}

	ks, _, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	id, path, err := ks.InitOwnerKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created owner key: %s\n", id)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyDeriveGuardian(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive-guardian", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)

	var from string
	var label string
	var force bool
	fs.StringVar(&from, "from", "", "Owner key name")
	fs.StringVar(&label, "label", "", "Guardian label (e.g. phone, ledger, spouse)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if label == "" {
		fmt.Fprintln(errOut, "missing --label")
		return 2
	}
	if err := keys.CheckName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckLabel(label); err != nil {
		fmt.Fprintf(errOut, "invalid --label: %v\n", err)
		return 2
	}

	ks, _, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	id, gid, path, err := ks.DeriveGuardianKey(from, label, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive guardian key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created guardian key: %s\n", id)
	fmt.Fprintf(out, "Guardian-ID: %s\n", gid)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	ks, _, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.List()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Name)
		for _, g := range e.Guardians {
			fmt.Fprintf(out, "  - %s\n", g)
		}
	}
	return 0
}

func cmdKeyShow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key show", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)

	var name string
	var label string
	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&label, "label", "", "Optional guardian label (if set, shows the derived key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if label != "" {
		if err := keys.CheckLabel(label); err != nil {
			fmt.Fprintf(errOut, "invalid --label: %v\n", err)
			return 2
		}
	}

	ks, _, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	id, err := ks.Identity(name, label)
	if err != nil {
		fmt.Fprintf(errOut, "show key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Identity: %s\n", id)
	fmt.Fprintf(out, "Guardian-ID: %s\n", identity.GuardianIDOf(id))
	return 0
}

func cmdOp(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden op <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: digest, sign, authorize, check-sig")
		return 2
	}
	switch args[0] {
	case "digest":
		return cmdOpDigest(args[1:], out, errOut)
	case "sign":
		return cmdOpSign(args[1:], out, errOut)
	case "authorize":
		return cmdOpAuthorize(args[1:], out, errOut)
	case "check-sig":
		return cmdOpCheckSig(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown op subcommand: %s\n", args[0])
		return 2
	}
}

func cmdOpDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("op digest", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var profilePath string
	var account string
	var tag string
	var payloadFile string
	var payloadHex string
	var chainID uint64
	fs.StringVar(&profilePath, "profile", "", "Profile file (default ~/.xdao/warden/cli.toml)")
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&tag, "tag", "", "Operation tag (e.g. execute, transfer)")
	fs.StringVar(&payloadFile, "payload-file", "", "Read the operation payload from a file")
	fs.StringVar(&payloadHex, "payload-hex", "", "Operation payload as hex")
	fs.Uint64Var(&chainID, "chain-id", 0, "Chain ID bound into the digest (default from profile)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) {
		return 2
	}
	if tag == "" {
		fmt.Fprintln(errOut, "missing --tag")
		return 2
	}
	if payloadFile != "" && payloadHex != "" {
		fmt.Fprintln(errOut, "conflicting flags: use --payload-file or --payload-hex, not both")
		return 2
	}

	var payload []byte
	if payloadFile != "" {
		b, rerr := os.ReadFile(payloadFile)
		if rerr != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(payloadFile), rerr)
			return 1
		}
		payload = b
	}
	if payloadHex != "" {
		b, derr := parseHexBytes(payloadHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --payload-hex: %v\n", derr)
			return 2
		}
		payload = b
	}

	p, err := config.LoadProfile(profilePath)
	if err != nil {
		fmt.Fprintf(errOut, "profile: %v\n", err)
		return 1
	}
	if chainID == 0 {
		chainID = p.ChainID
	}

	dig := digest.Scheme{ChainID: chainID, Account: identity.MustParse(account)}.Message(tag, payload)
	_, _ = fmt.Fprintln(out, hex.EncodeToString(dig[:]))
	return 0
}

func cmdOpSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("op sign", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)
	var sf signerFlags
	sf.add(fs)

	var digestHex string
	var raw bool
	fs.StringVar(&digestHex, "digest", "", "Operation digest as 64 hex chars")
	fs.BoolVar(&raw, "raw", false, "Sign the bare digest (the check-sig form) instead of the operation envelope")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if digestHex == "" {
		fmt.Fprintln(errOut, "missing --digest")
		return 2
	}
	dig, err := parseHex32(digestHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --digest: %v\n", err)
		return 2
	}
	if !sf.check(errOut) {
		return 2
	}

	ks, _, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	seed, err := ks.LoadSeed(sf.seedHex, sf.signer, sf.label, sf.keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}
	priv, err := keys.PrivateKeyFromSeed(seed)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}

	var sig []byte
	if raw {
		sig = keys.SignDigest(priv, dig)
	} else {
		sig = keys.SignOperation(priv, dig)
	}
	fmt.Fprintf(errOut, "Signer: %s\n", identity.FromPublicKey(priv.PubKey()))
	_, _ = fmt.Fprintln(out, hex.EncodeToString(sig))
	return 0
}

func cmdOpAuthorize(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("op authorize", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var digestHex string
	var sigHex string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the entry point)")
	fs.StringVar(&digestHex, "digest", "", "Operation digest as 64 hex chars")
	fs.StringVar(&sigHex, "sig", "", "Signature over the operation envelope, as hex")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}
	dig, err := parseHex32(digestHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --digest: %v\n", err)
		return 2
	}
	sig, err := parseHexBytes(sigHex)
	if err != nil || len(sig) == 0 {
		fmt.Fprintln(errOut, "invalid --sig: expected non-empty hex")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	decision, err := cl.Authorize(model.AuthorizeRequest{Account: account, Caller: caller, Digest: dig[:], Signature: sig})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, decision)
	if decision != "accepted" {
		return 1
	}
	return 0
}

func cmdOpCheckSig(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("op check-sig", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var digestHex string
	var sigHex string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&digestHex, "digest", "", "Digest as 64 hex chars")
	fs.StringVar(&sigHex, "sig", "", "Signature over the bare digest, as hex")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) {
		return 2
	}
	dig, err := parseHex32(digestHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --digest: %v\n", err)
		return 2
	}
	sig, err := parseHexBytes(sigHex)
	if err != nil || len(sig) == 0 {
		fmt.Fprintln(errOut, "invalid --sig: expected non-empty hex")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	valid, err := cl.CheckSignature(model.CheckSignatureRequest{Account: account, Digest: dig[:], Signature: sig})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if !valid {
		_, _ = fmt.Fprintln(out, "invalid")
		return 1
	}
	_, _ = fmt.Fprintln(out, "valid")
	return 0
}

func cmdReceipt(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden receipt <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: cid, get, list, verify, export, import")
		return 2
	}
	switch args[0] {
	case "cid":
		return cmdReceiptCID(args[1:], out, errOut)
	case "get":
		return cmdReceiptGet(args[1:], out, errOut)
	case "list":
		return cmdReceiptList(args[1:], out, errOut)
	case "verify":
		return cmdReceiptVerify(args[1:], out, errOut)
	case "export":
		return cmdReceiptExport(args[1:], out, errOut)
	case "import":
		return cmdReceiptImport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown receipt subcommand: %s\n", args[0])
		return 2
	}
}

func cmdReceiptCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-warden receipt cid <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	_, _ = fmt.Fprintln(out, receipt.ComputeCIDString(b))
	return 0
}

func cmdReceiptGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt get", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var dir string
	var cidStr string
	var outPath string
	fs.StringVar(&dir, "dir", "", "Receipt archive directory")
	fs.StringVar(&cidStr, "cid", "", "Receipt CID")
	fs.StringVar(&outPath, "out", "", "Output file (optional; default stdout)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if dir == "" {
		fmt.Fprintln(errOut, "missing --dir")
		return 2
	}
	if cidStr == "" {
		fmt.Fprintln(errOut, "missing --cid")
		return 2
	}

	a, err := receipt.NewDir(dir)
	if err != nil {
		fmt.Fprintf(errOut, "archive: %v\n", err)
		return 1
	}
	id, err := cid.Decode(cidStr)
	if err != nil {
		fmt.Fprintln(errOut, receipt.ErrInvalidCID)
		return 1
	}
	b, err := a.Get(id)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if outPath == "" {
		_, _ = out.Write(b)
		return 0
	}
	if err := os.WriteFile(outPath, b, 0o600); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

func cmdReceiptList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt list", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var dir string
	fs.StringVar(&dir, "dir", "", "Receipt archive directory")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if dir == "" {
		fmt.Fprintln(errOut, "missing --dir")
		return 2
	}

	a, err := receipt.NewDir(dir)
	if err != nil {
		fmt.Fprintf(errOut, "archive: %v\n", err)
		return 1
	}
	ids, err := a.List()
	if err != nil {
		fmt.Fprintf(errOut, "list receipts: %v\n", err)
		return 1
	}
	for _, id := range ids {
		_, _ = fmt.Fprintln(out, id.String())
	}
	return 0
}

func cmdReceiptVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var cidStr string
	fs.StringVar(&cidStr, "cid", "", "Expected receipt CID")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if cidStr == "" {
		fmt.Fprintln(errOut, "missing --cid")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-warden receipt verify --cid <cid> <file>")
		return 2
	}

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	id, err := cid.Decode(cidStr)
	if err != nil {
		fmt.Fprintln(errOut, receipt.ErrInvalidCID)
		return 1
	}
	if err := receipt.Verify(b, id); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdReceiptExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var dir string
	var outPath string
	var cids stringList
	var includeIndex bool
	fs.StringVar(&dir, "dir", "", "Receipt archive directory")
	fs.StringVar(&outPath, "out", "", "Bundle file (optional; default stdout)")
	fs.Var(&cids, "cid", "Receipt CID to export (repeatable; default all)")
	fs.BoolVar(&includeIndex, "index", true, "Include index.json in the bundle")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if dir == "" {
		fmt.Fprintln(errOut, "missing --dir")
		return 2
	}

	a, err := receipt.NewDir(dir)
	if err != nil {
		fmt.Fprintf(errOut, "archive: %v\n", err)
		return 1
	}

	var ids []cid.Cid
	if len(cids) == 0 {
		ids, err = a.List()
		if err != nil {
			fmt.Fprintf(errOut, "list receipts: %v\n", err)
			return 1
		}
		if len(ids) == 0 {
			fmt.Fprintln(errOut, "archive is empty")
			return 1
		}
	} else {
		for _, s := range cids {
			id, derr := cid.Decode(s)
			if derr != nil {
				fmt.Fprintln(errOut, receipt.ErrInvalidCID)
				return 1
			}
			ids = append(ids, id)
		}
	}

	var w io.Writer = out
	var f *os.File
	if outPath != "" {
		f, err = os.Create(outPath)
		if err != nil {
			fmt.Fprintf(errOut, "create %s: %v\n", outPath, err)
			return 1
		}
		w = f
	}
	if err := receipt.Export(w, a, ids, receipt.ExportOptions{IncludeIndex: includeIndex}); err != nil {
		if f != nil {
			_ = f.Close()
		}
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	if f != nil {
		if err := f.Close(); err != nil {
			fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
			return 1
		}
	}
	fmt.Fprintf(errOut, "Exported %d receipts\n", len(ids))
	return 0
}

func cmdReceiptImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt import", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var dir string
	var inPath string
	var ignoreUnknown bool
	fs.StringVar(&dir, "dir", "", "Receipt archive directory")
	fs.StringVar(&inPath, "in", "", "Bundle file to import")
	fs.BoolVar(&ignoreUnknown, "ignore-unknown", false, "Skip unknown bundle entries instead of failing")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if dir == "" {
		fmt.Fprintln(errOut, "missing --dir")
		return 2
	}
	if inPath == "" {
		fmt.Fprintln(errOut, "missing --in")
		return 2
	}

	a, err := receipt.NewDir(dir)
	if err != nil {
		fmt.Fprintf(errOut, "archive: %v\n", err)
		return 1
	}
	f, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(inPath), err)
		return 1
	}
	defer func() { _ = f.Close() }()

	if err := receipt.ImportWithOptions(f, a, receipt.ImportOptions{IgnoreUnknown: ignoreUnknown}); err != nil {
		fmt.Fprintf(errOut, "import: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdRecover(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden recover <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: vote, submit")
		return 2
	}
	switch args[0] {
	case "vote":
		return cmdRecoverVote(args[1:], out, errOut)
	case "submit":
		return cmdRecoverSubmit(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown recover subcommand: %s\n", args[0])
		return 2
	}
}

// cmdRecoverVote signs a recovery vote offline. The printed <guardian>:<sighex>
// token is what cmdRecoverSubmit collects, so votes can be gathered from
// guardians who never talk to the daemon.
func cmdRecoverVote(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("recover vote", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var kf keysFlags
	kf.add(fs)
	var sf signerFlags
	sf.add(fs)

	var account string
	var newOwner string
	var chainID uint64
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&newOwner, "new-owner", "", "Proposed owner identity")
	fs.Uint64Var(&chainID, "chain-id", 0, "Chain ID bound into the recovery digest (default from profile)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "new-owner", newOwner) {
		return 2
	}
	if !sf.check(errOut) {
		return 2
	}

	ks, p, err := kf.open()
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	if chainID == 0 {
		chainID = p.ChainID
	}

	seed, err := ks.LoadSeed(sf.seedHex, sf.signer, sf.label, sf.keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}
	priv, err := keys.PrivateKeyFromSeed(seed)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}

	guardian := identity.FromPublicKey(priv.PubKey())
	scheme := digest.Scheme{ChainID: chainID, Account: identity.MustParse(account)}
	sig := keys.SignRecoveryVote(priv, scheme, identity.MustParse(newOwner))

	fmt.Fprintf(errOut, "Guardian: %s\n", guardian)
	fmt.Fprintf(errOut, "Guardian-ID: %s\n", identity.GuardianIDOf(guardian))
	_, _ = fmt.Fprintf(out, "%s:%s\n", guardian, hex.EncodeToString(sig))
	return 0
}

func cmdRecoverSubmit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("recover submit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var newOwner string
	var votes stringList
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&newOwner, "new-owner", "", "Proposed owner identity")
	fs.Var(&votes, "vote", "Guardian vote as <identity>:<sighex> (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "new-owner", newOwner) {
		return 2
	}
	if len(votes) == 0 {
		fmt.Fprintln(errOut, "missing --vote")
		return 2
	}

	guardians := make([]string, 0, len(votes))
	sigs := make([][]byte, 0, len(votes))
	for _, v := range votes {
		g, s, ok := strings.Cut(v, ":")
		if !ok {
			fmt.Fprintf(errOut, "invalid --vote (expected <identity>:<sighex>): %q\n", v)
			return 2
		}
		if _, perr := identity.Parse(g); perr != nil {
			fmt.Fprintf(errOut, "invalid --vote identity: %v\n", perr)
			return 2
		}
		sig, serr := parseHexBytes(s)
		if serr != nil || len(sig) == 0 {
			fmt.Fprintf(errOut, "invalid --vote signature: expected non-empty hex\n")
			return 2
		}
		guardians = append(guardians, g)
		sigs = append(sigs, sig)
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	res, err := cl.Recover(model.RecoverRequest{
		Account:    account,
		NewOwner:   newOwner,
		Guardians:  guardians,
		Signatures: sigs,
	})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(errOut, "Votes: %d\n", res.Votes)
	return printJSON(out, errOut, res.Account)
}

func cmdTransfer(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-warden transfer <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: propose, accept")
		return 2
	}
	switch args[0] {
	case "propose":
		return cmdTransferPropose(args[1:], out, errOut)
	case "accept":
		return cmdTransferAccept(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown transfer subcommand: %s\n", args[0])
		return 2
	}
}

func cmdTransferPropose(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("transfer propose", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var newOwner string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the owner)")
	fs.StringVar(&newOwner, "new-owner", "", "Proposed owner identity")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) ||
		!checkIdentity(errOut, "caller", caller) ||
		!checkIdentity(errOut, "new-owner", newOwner) {
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.ProposeTransfer(model.ProposeTransferRequest{Account: account, Caller: caller, NewOwner: newOwner})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdTransferAccept(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("transfer accept", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the pending owner)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	view, err := cl.AcceptTransfer(model.AcceptTransferRequest{Account: account, Caller: caller})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return printJSON(out, errOut, view)
}

func cmdUpgrade(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("upgrade", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var cf clientFlags
	cf.add(fs)

	var account string
	var caller string
	var implementation string
	fs.StringVar(&account, "account", "", "Account identity")
	fs.StringVar(&caller, "caller", "", "Caller identity (must be the owner)")
	fs.StringVar(&implementation, "implementation", "", "Implementation reference to authorize")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !checkIdentity(errOut, "account", account) || !checkIdentity(errOut, "caller", caller) {
		return 2
	}
	if implementation == "" {
		fmt.Fprintln(errOut, "missing --implementation")
		return 2
	}

	cl, err := cf.dial()
	if err != nil {
		fmt.Fprintf(errOut, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = cl.Close() }()

	if err := cl.AuthorizeUpgrade(model.AuthorizeUpgradeRequest{
		Account:        account,
		Caller:         caller,
		Implementation: implementation,
	}); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "authorized")
	return 0
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("empty value")
	}
	*l = append(*l, v)
	return nil
}

// identityList validates every element up front so malformed identities fail
// at flag parse time instead of server-side.
type identityList []string

func (l *identityList) String() string { return strings.Join(*l, ",") }

func (l *identityList) Set(v string) error {
	v = strings.TrimSpace(v)
	if _, err := identity.Parse(v); err != nil {
		return err
	}
	*l = append(*l, v)
	return nil
}

func checkIdentity(errOut io.Writer, flagName, v string) bool {
	if v == "" {
		fmt.Fprintf(errOut, "missing --%s\n", flagName)
		return false
	}
	if _, err := identity.Parse(v); err != nil {
		fmt.Fprintf(errOut, "invalid --%s: %v\n", flagName, err)
		return false
	}
	return true
}

func parseHex32(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("expected %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

func parseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return hex.DecodeString(s)
}

func printJSON(out io.Writer, errOut io.Writer, v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	_, _ = fmt.Fprintln(out)
	return 0
}
