// Command itcryptoctl is a bootstrap/demo CLI over the sign/share/unwrap
// protocol operations: generate an AuthenticatedUser keypair, sign an
// AccessLog, share it with a set of receivers, and unwrap a token
// (SPEC_FULL.md §4, ported from the dev token generator's subcommand
// style).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/itcrypto"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "sign":
		runSign(os.Args[2:])
	case "share":
		runShare(os.Args[2:])
	case "unwrap":
		runUnwrap(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`itcryptoctl - bootstrap/demo CLI for the log-sharing protocol

Commands:
  generate  Mint a fresh AuthenticatedUser keypair
  sign      Sign an AccessLog as a monitor
  share     Re-share a signed AccessLog with a set of receivers
  unwrap    Decrypt and verify a shared token

Use "itcryptoctl <command> -h" for flags.`)
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	id := fs.String("id", "", "User id (required)")
	monitor := fs.Bool("monitor", false, "Mark this user as a monitor, authorised to originate AccessLogs")
	keysDir := fs.String("keys-dir", "./keys", "Directory to write PEM key material to")
	fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "generate: -id is required")
		os.Exit(1)
	}

	opts := []itcrypto.UserOption{}
	if *monitor {
		opts = append(opts, itcrypto.WithMonitor(true))
	}
	user, err := (itcrypto.UserManagement{}).GenerateAuthenticatedUser(*id, opts...)
	fatalOn(err, "generate")

	fatalOn(writeAuthenticatedUser(*keysDir, user.AuthenticatedUser), "generate")

	fmt.Printf("generated user %q in %s (monitor=%v)\n", *id, *keysDir, *monitor)
}

func runSign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	monitorID := fs.String("id", "", "Monitor id (required, must already be generated)")
	keysDir := fs.String("keys-dir", "./keys", "Directory holding the monitor's PEM key material")
	owner := fs.String("owner", "", "Owner id the log is about (required)")
	tool := fs.String("tool", "", "Tool that accessed the owner's data (required)")
	justification := fs.String("justification", "", "Justification for the access (required)")
	accessKind := fs.String("access-kind", "read", "Kind of access")
	dataTypes := fs.String("data-types", "", "Comma-separated data types accessed")
	logID := fs.String("log-id", "", "Unique id for this log entry. Generated if empty.")
	fs.Parse(args)

	if *monitorID == "" || *owner == "" || *tool == "" || *justification == "" {
		fmt.Fprintln(os.Stderr, "sign: -id, -owner, -tool, and -justification are required")
		os.Exit(1)
	}

	monitor, err := readAuthenticatedUser(*keysDir, *monitorID)
	fatalOn(err, "sign")

	id := *logID
	if id == "" {
		id = fmt.Sprintf("%s-%d", *monitorID, time.Now().UnixNano())
	}

	log := model.AccessLog{
		Monitor:       *monitorID,
		Owner:         *owner,
		Tool:          *tool,
		Justification: *justification,
		Timestamp:     time.Now().Unix(),
		AccessKind:    *accessKind,
		DataTypes:     splitCSV(*dataTypes),
		ID:            id,
	}

	user := itcrypto.User{AuthenticatedUser: monitor}
	signed, err := user.SignAccessLog(log)
	fatalOn(err, "sign")

	out, err := json.Marshal(signed.JWS())
	fatalOn(err, "sign")
	fmt.Println(string(out))
}

func runShare(args []string) {
	fs := flag.NewFlagSet("share", flag.ExitOnError)
	ownerID := fs.String("id", "", "Owner id (required, must already be generated)")
	keysDir := fs.String("keys-dir", "./keys", "Directory holding the owner's PEM key material")
	signedAccessLog := fs.String("signed-access-log", "", "Signed AccessLog JWS JSON, as produced by 'sign' (required)")
	recipientIDs := fs.String("recipient-ids", "", "Comma-separated recipient ids, looked up in -keys-dir (required)")
	fs.Parse(args)

	if *ownerID == "" || *signedAccessLog == "" || *recipientIDs == "" {
		fmt.Fprintln(os.Stderr, "share: -id, -signed-access-log, and -recipient-ids are required")
		os.Exit(1)
	}

	owner, err := readAuthenticatedUser(*keysDir, *ownerID)
	fatalOn(err, "share")

	var jws jose.FlattenedJWS
	fatalOn(json.Unmarshal([]byte(*signedAccessLog), &jws), "share")

	var receivers []identity.RemoteUser
	for _, recipientID := range splitCSV(*recipientIDs) {
		remote, err := readRemoteUser(*keysDir, recipientID)
		fatalOn(err, "share")
		receivers = append(receivers, remote)
	}

	user := itcrypto.User{AuthenticatedUser: owner}
	token, err := user.EncryptLog(identity.NewSignedLog(jws), receivers)
	fatalOn(err, "share")

	fmt.Println(token)
}

func runUnwrap(args []string) {
	fs := flag.NewFlagSet("unwrap", flag.ExitOnError)
	receiverID := fs.String("id", "", "Receiver id (required, must already be generated)")
	keysDir := fs.String("keys-dir", "./keys", "Directory holding the receiver's PEM key material, also used as the user directory for resolving creator/monitor")
	token := fs.String("token", "", "JWE token, as produced by 'share' (required)")
	fs.Parse(args)

	if *receiverID == "" || *token == "" {
		fmt.Fprintln(os.Stderr, "unwrap: -id and -token are required")
		os.Exit(1)
	}

	receiver, err := readAuthenticatedUser(*keysDir, *receiverID)
	fatalOn(err, "unwrap")

	resolver := identity.UserResolverFunc(func(_ context.Context, id string) (identity.RemoteUser, error) {
		return readRemoteUser(*keysDir, id)
	})

	user := itcrypto.User{AuthenticatedUser: receiver}
	signed, err := user.DecryptLog(context.Background(), *token, resolver)
	fatalOn(err, "unwrap")

	log, err := signed.Extract()
	fatalOn(err, "unwrap")

	out, err := json.MarshalIndent(log, "", "  ")
	fatalOn(err, "unwrap")
	fmt.Println(string(out))
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func fatalOn(err error, command string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}
