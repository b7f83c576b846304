package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"relay/internal/client/models"
	"relay/internal/client/services"
	"relay/internal/common"
)

// promptCredentials asks for login and password interactively.
func (a *App) promptCredentials() (string, string, error) {
	login, err := GetSimpleText(a.reader, "Login", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)
	return login, string(password), nil
}

// signIn authenticates interactively and makes sure the device identity
// is provisioned and confirmed by the directory.
func (a *App) signIn(ctx context.Context) (*services.Session, *models.DeviceKeyPair, error) {
	login, password, err := a.promptCredentials()
	if err != nil {
		return nil, nil, err
	}

	sess, err := a.dir.SignIn(ctx, login, password)
	if err != nil {
		return nil, nil, err
	}

	kp, err := a.identity.EnsureDeviceReady(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	return sess, kp, nil
}

func (a *App) cmdRegister(ctx context.Context) error {
	login, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	sess, err := a.dir.SignUp(ctx, login, password)
	if err != nil {
		return err
	}

	kp, err := a.identity.EnsureDeviceReady(ctx, sess)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered. User id: %s, device id: %s\n", sess.UserID, kp.DeviceID)
	return nil
}

func (a *App) cmdLogin(ctx context.Context) error {
	sess, kp, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in. User id: %s, device id: %s\n", sess.UserID, kp.DeviceID)
	return nil
}

func (a *App) cmdGroups(ctx context.Context) error {
	sess, _, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	groups, err := a.dir.ListGroups(ctx, sess)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No groups.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, "%s  %s\n", g.ID, g.Name)
	}
	return nil
}

func (a *App) cmdGroupCreate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: group-create <name>")
	}

	sess, _, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	group, err := a.dir.CreateGroup(ctx, sess, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created group %s (%s)\n", group.Name, group.ID)
	return nil
}

func (a *App) cmdInvite(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: invite <group-id> <user-id>")
	}
	groupID, invitee := args[0], args[1]

	sess, kp, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	if err := a.dir.AddGroupMember(ctx, sess, groupID, invitee, models.RoleMember); err != nil {
		return err
	}

	report, err := a.sharing.OnMemberAdded(ctx, sess, kp, groupID, invitee)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Invited %s: %d keys shared", invitee, report.Shared)
	if report.SkippedMissingOwnKey > 0 {
		fmt.Fprintf(a.out, ", %d documents skipped (no key on this device)", report.SkippedMissingOwnKey)
	}
	if report.SkippedBadDeviceKey > 0 {
		fmt.Fprintf(a.out, ", %d devices skipped (bad public key)", report.SkippedBadDeviceKey)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *App) cmdDocs(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: docs <group-id>")
	}

	sess, _, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	docs, err := a.dir.ListDocuments(ctx, sess, args[0])
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents.")
		return nil
	}
	for _, doc := range docs {
		fmt.Fprintf(a.out, "%s  %s\n", doc.ID, doc.Name)
	}
	return nil
}

func (a *App) cmdUpload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: upload <group-id> <file>")
	}
	groupID, path := args[0], args[1]

	plaintext, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sess, _, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	doc, report, err := a.document.Upload(ctx, sess, groupID, filepath.Base(path), plaintext)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s as %s (%d recipient devices", doc.Name, doc.ID, len(report.Wrapped))
	if len(report.Failed) > 0 {
		fmt.Fprintf(a.out, ", %d devices skipped", len(report.Failed))
	}
	fmt.Fprintln(a.out, ")")
	return nil
}

func (a *App) cmdDownload(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: download <group-id> <doc-id> <file>")
	}
	groupID, docID, path := args[0], args[1], args[2]

	sess, kp, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	docs, err := a.dir.ListDocuments(ctx, sess, groupID)
	if err != nil {
		return err
	}

	var doc *models.Document
	for _, d := range docs {
		if d.ID == docID {
			doc = d
			break
		}
	}
	if doc == nil {
		return fmt.Errorf("document %s not found in group %s", docID, groupID)
	}

	plaintext, err := a.document.Download(ctx, sess, kp, doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, plaintext, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", path, len(plaintext))
	return nil
}

func (a *App) cmdExportKeys(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export-keys <file>")
	}

	_, kp, err := a.signIn(ctx)
	if err != nil {
		return err
	}

	password, err := GetPassword("Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	payload, err := a.backup.ExportIdentity(kp, string(password))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported identity keys to %s\n", args[0])
	return nil
}

func (a *App) cmdImportKeys(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import-keys <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var payload models.BackupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: malformed backup file", common.ErrWrongPasswordOrCorrupt)
	}

	login, accountPassword, err := a.promptCredentials()
	if err != nil {
		return err
	}
	sess, err := a.dir.SignIn(ctx, login, accountPassword)
	if err != nil {
		return err
	}

	password, err := GetPassword("Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	kp, err := a.backup.ImportIdentity(&payload, string(password))
	if err != nil {
		return err
	}
	kp.UserID = sess.UserID

	// Reuse the directory device whose public key matches the restored
	// pair, so existing wrapped rows stay reachable; otherwise register
	// the restored key as a new device.
	devices, err := a.dir.ListDevicesForUsers(ctx, sess, []string{sess.UserID})
	if err != nil {
		return err
	}
	for _, dev := range devices {
		if bytes.Equal(dev.PublicKey, kp.PublicKey) {
			kp.DeviceID = dev.ID
			break
		}
	}
	if kp.DeviceID == "" {
		kp.DeviceID, err = a.dir.CreateDevice(ctx, sess, "restored", kp.PublicKey)
		if err != nil {
			return err
		}
	}

	if err := a.identity.SaveIdentity(ctx, kp); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Restored identity for device %s\n", kp.DeviceID)
	return nil
}
