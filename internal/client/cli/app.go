// Package cli implements the command-line client: account registration,
// group management, encrypted document upload/download and identity
// backup. One command per invocation; credentials are prompted, never
// taken from arguments.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"relay/internal/client/config"
	"relay/internal/client/directory"
	"relay/internal/client/keystore"
	"relay/internal/client/services"
	"relay/internal/client/storage"
	"relay/internal/logging"
)

type App struct {
	config   *config.Config
	dir      *directory.Client
	identity *services.IdentityService
	document *services.DocumentService
	sharing  *services.SharingService
	backup   *services.BackupService
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := keystore.InitDatabase(ctx, cfg.KeystorePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing keystore: %w", err)
	}

	store, err := storage.NewS3Store(ctx, &storage.Config{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dir := directory.NewClient(cfg.DirectoryAddr)
	keys := keystore.NewSQLiteRepository(db)
	sharing := services.NewSharingService(dir, logger)

	return &App{
		config:   cfg,
		dir:      dir,
		identity: services.NewIdentityService(dir, keys, logger),
		document: services.NewDocumentService(dir, store, sharing, cfg.S3Bucket, logger),
		sharing:  sharing,
		backup:   services.NewBackupService(),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// positionalArgs strips flags (and their separate values) from args,
// leaving the command and its arguments.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

func (a *App) Run(ctx context.Context) error {
	args := positionalArgs(os.Args[1:])
	if len(args) == 0 {
		a.printUsage()
		return nil
	}

	command, rest := args[0], args[1:]

	switch command {
	case "register":
		return a.cmdRegister(ctx)
	case "login":
		return a.cmdLogin(ctx)
	case "groups":
		return a.cmdGroups(ctx)
	case "group-create":
		return a.cmdGroupCreate(ctx, rest)
	case "invite":
		return a.cmdInvite(ctx, rest)
	case "docs":
		return a.cmdDocs(ctx, rest)
	case "upload":
		return a.cmdUpload(ctx, rest)
	case "download":
		return a.cmdDownload(ctx, rest)
	case "export-keys":
		return a.cmdExportKeys(ctx, rest)
	case "import-keys":
		return a.cmdImportKeys(ctx, rest)
	default:
		a.printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *App) printUsage() {
	fmt.Fprintln(a.out, `Usage: relay [flags] <command> [args]

Commands:
  register                              create an account and device identity
  login                                 sign in and verify the device identity
  groups                                list your groups
  group-create <name>                   create a group (you become admin)
  invite <group-id> <user-id>           add a member and re-share group documents
  docs <group-id>                       list documents in a group
  upload <group-id> <file>              encrypt and upload a file
  download <group-id> <doc-id> <file>   download and decrypt a document
  export-keys <file>                    export identity keys under a password
  import-keys <file>                    restore identity keys from a backup

Flags:
  -a <url>    directory service base URL
  -d <path>   local keystore database path
  -c <path>   JSON config file`)
}
