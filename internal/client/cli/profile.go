package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/rehearsal/internal/client/api"
	"github.com/dmitrijs2005/rehearsal/internal/netx"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
)

// maxAvatarBytes bounds the file accepted by the avatar command.
const maxAvatarBytes = 5 << 20

// uploadToPresignedURL is a test seam for netx.UploadToPresignedURL.
var uploadToPresignedURL = netx.UploadToPresignedURL

func (a *App) printUser(u *models.PublicUser) {
	fmt.Fprintf(a.out, "ID:      %s\n", u.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", u.Name)
	fmt.Fprintf(a.out, "Email:   %s\n", u.Email)
	if u.ProfileImageURL != nil {
		fmt.Fprintf(a.out, "Image:   %s\n", *u.ProfileImageURL)
	}
	fmt.Fprintf(a.out, "Member since %s\n", u.CreatedAt.Format("2006-01-02"))
}

// Me shows the signed-in user as the server currently sees it.
func (a *App) Me(ctx context.Context) error {
	c, _, err := a.authed()
	if err != nil {
		return err
	}

	u, err := c.Me(ctx)
	if err != nil {
		return a.checkAuth(err)
	}

	a.printUser(u)
	return nil
}

// Profile asks for new values; empty answers keep the current ones.
func (a *App) Profile(ctx context.Context) error {
	c, _, err := a.authed()
	if err != nil {
		return err
	}

	var upd api.ProfileUpdate

	if upd.Name, err = getSimpleText(a.reader, "New name (empty to keep)", a.out); err != nil {
		return err
	}
	if upd.Email, err = getSimpleText(a.reader, "New email (empty to keep)", a.out); err != nil {
		return err
	}

	change, err := getConfirmation(a.reader, "Change password?", a.out)
	if err != nil {
		return err
	}
	if change {
		pw, err := getPassword("New password", a.out)
		if err != nil {
			return err
		}
		upd.Password = string(pw)
	}

	if upd == (api.ProfileUpdate{}) {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	u, err := c.UpdateProfile(ctx, upd)
	if err != nil {
		return a.checkAuth(err)
	}

	if upd.Email != "" {
		sess, loadErr := a.store.Load()
		if loadErr == nil {
			sess.Email = u.Email
			if err := a.store.Save(sess); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(a.out, "Profile updated")
	a.printUser(u)
	return nil
}

// Avatar uploads a local image as the profile picture: it asks the server
// for a presigned URL, PUTs the file there and records the object URL.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: avatar <image file>")
	}

	c, _, err := a.authed()
	if err != nil {
		return err
	}

	data, err := readAvatar(args[0])
	if err != nil {
		return err
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%s is not an image (%s)", args[0], contentType)
	}

	up, err := c.PresignProfileImage(ctx)
	if err != nil {
		return a.checkAuth(err)
	}

	if err := uploadToPresignedURL(ctx, c.HTTPClient(), up.UploadURL, contentType, bytes.NewReader(data)); err != nil {
		return err
	}

	u, err := c.UpdateProfile(ctx, api.ProfileUpdate{ProfileImageURL: up.ProfileImageURL})
	if err != nil {
		return a.checkAuth(err)
	}

	if u.ProfileImageURL == nil {
		return errors.New("server did not record the profile image")
	}
	fmt.Fprintf(a.out, "Profile image set to %s\n", *u.ProfileImageURL)
	return nil
}

func readAvatar(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > maxAvatarBytes {
		return nil, fmt.Errorf("%s is larger than %d MiB", path, maxAvatarBytes>>20)
	}
	return os.ReadFile(path)
}
