package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/netx"
)

// seams for tests
var (
	readFile = os.ReadFile
	uploadFn = netx.UploadToPresignedURL
)

const maxAvatarSize = 5 << 20

var (
	errNotLoggedIn  = errors.New("not logged in")
	errNotEditing   = errors.New("not editing")
	errNoUploader   = errors.New("avatar upload unavailable")
	errNotAnImage   = errors.New("not an image")
	errAvatarTooBig = fmt.Errorf("avatar larger than %d bytes", maxAvatarSize)
)

func (a *App) requireLogin() (models.Session, error) {
	s := a.session.Current()
	if !s.IsLoggedIn {
		printlnFn("Log in first")
		return s, errNotLoggedIn
	}
	return s, nil
}

// Show prints the profile. While editing, the pending changes are shown.
func (a *App) Show(ctx context.Context) error {
	s, err := a.requireLogin()
	if err != nil {
		return err
	}

	p := s.Profile
	if a.draft != nil {
		p = a.draft
		printlnFn("(unsaved changes)")
	}
	if p == nil {
		printlnFn("No profile data")
		return nil
	}

	printlnFn(fmt.Sprintf("%-20s %s", "Username:", p.Username))
	for _, f := range screen.ProfileFields() {
		printlnFn(fmt.Sprintf("%-20s %s", f.Label()+":", screen.ProfileValue(*p, f)))
	}
	return nil
}

// Edit enters edit mode and prompts for every profile field. The changes
// stay pending until Save or Cancel.
func (a *App) Edit(ctx context.Context) error {
	s, err := a.requireLogin()
	if err != nil {
		return err
	}

	if err := a.session.BeginEdit(); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			printlnFn("Already editing, type 'save' or 'cancel'")
		} else {
			printlnFn(services.Message(err))
		}
		return err
	}

	var draft models.Profile
	if s.Profile != nil {
		draft = *s.Profile
	}
	for _, f := range screen.ProfileFields() {
		v, err := GetTextWithDefault(a.reader, "Enter "+f.Label(), screen.ProfileValue(draft, f), a.out)
		if err != nil {
			_ = a.session.CancelEdit()
			a.logger.Warn(ctx, "reading profile failed", "error", err)
			return err
		}
		screen.SetProfileValue(&draft, f, v)
	}

	a.draft = &draft
	printlnFn("Type 'save' to keep the changes or 'cancel' to drop them")
	return nil
}

// Save persists the pending changes and leaves edit mode.
func (a *App) Save(ctx context.Context) error {
	if a.draft == nil {
		printlnFn("Nothing to save")
		return errNotEditing
	}

	if err := a.session.SaveProfile(ctx, *a.draft); err != nil {
		a.logger.Error(ctx, "saving profile failed", "error", err)
		printlnFn(services.MsgProfileNotSaved)
		return err
	}

	a.draft = nil
	printlnFn(services.MsgProfileUpdated)
	return nil
}

// Cancel drops the pending changes and leaves edit mode.
func (a *App) Cancel(ctx context.Context) error {
	if a.draft == nil {
		printlnFn("Nothing to cancel")
		return errNotEditing
	}
	if err := a.session.CancelEdit(); err != nil {
		printlnFn(services.Message(err))
		return err
	}
	a.draft = nil
	printlnFn("Changes dropped")
	return nil
}

// Avatar uploads the image at path and points the profile picture at it.
// While editing, only the pending changes are updated.
func (a *App) Avatar(ctx context.Context, path string) error {
	s, err := a.requireLogin()
	if err != nil {
		return err
	}
	if a.uploader == nil {
		printlnFn("Avatar upload needs the remote credential backend")
		return errNoUploader
	}

	data, err := readFile(path)
	if err != nil {
		a.logger.Warn(ctx, "reading avatar failed", "path", path, "error", err)
		printlnFn("Cannot read", path)
		return err
	}
	if len(data) > maxAvatarSize {
		printlnFn("File is too large")
		return errAvatarTooBig
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		printlnFn("File is not an image")
		return errNotAnImage
	}

	key, putURL, getURL, err := a.uploader.PresignAvatar(ctx, contentType)
	if err != nil {
		a.logger.Error(ctx, "presign avatar failed", "error", err)
		printlnFn(services.MsgGeneric)
		return err
	}
	if err := uploadFn(ctx, nil, putURL, contentType, data); err != nil {
		a.logger.Error(ctx, "avatar upload failed", "key", key, "error", err)
		printlnFn(services.MsgGeneric)
		return err
	}
	a.logger.Info(ctx, "avatar uploaded", "key", key, "size", len(data))

	if a.draft != nil {
		a.draft.ProfilePicture = getURL
		printlnFn("Avatar uploaded, type 'save' to keep it")
		return nil
	}

	var p models.Profile
	if s.Profile != nil {
		p = *s.Profile
	}
	p.ProfilePicture = getURL
	if err := a.session.UpdateProfile(ctx, p); err != nil {
		a.logger.Error(ctx, "updating profile picture failed", "error", err)
		printlnFn(services.MsgProfileNotSaved)
		return err
	}
	printlnFn(services.MsgProfileUpdated)
	return nil
}
