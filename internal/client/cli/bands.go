package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/rehearsal/internal/server/models"
)

// CreateBand creates a band named by args; the caller becomes its leader.
func (a *App) CreateBand(ctx context.Context, args []string) error {
	c, _, err := a.authed()
	if err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		if name, err = getSimpleText(a.reader, "Band name", a.out); err != nil {
			return err
		}
	}

	b, err := c.CreateBand(ctx, name)
	if err != nil {
		return a.checkAuth(err)
	}

	fmt.Fprintf(a.out, "Created band %q (id %s)\n", b.Name, b.ID)
	return nil
}

// Members lists everyone in the band given as the only argument.
func (a *App) Members(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: members <band id>")
	}

	c, _, err := a.authed()
	if err != nil {
		return err
	}

	members, err := c.ListMembers(ctx, args[0])
	if err != nil {
		return a.checkAuth(err)
	}

	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tROLE\tJOINED")
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Email, m.Role, m.JoinedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

// AddMember adds a user by email to a band: add-member <band id> [email] [role].
// Missing values are prompted for; the role defaults to member.
func (a *App) AddMember(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errors.New("usage: add-member <band id> [email] [role]")
	}

	c, _, err := a.authed()
	if err != nil {
		return err
	}

	bandID := args[0]

	var email, role string
	if len(args) > 1 {
		email = args[1]
	} else if email, err = getSimpleText(a.reader, "Member email", a.out); err != nil {
		return err
	}
	if len(args) > 2 {
		role = args[2]
	} else if role, err = getSimpleText(a.reader, "Role (member, admin, leader; empty for member)", a.out); err != nil {
		return err
	}

	m, err := c.AddMember(ctx, bandID, email, models.Role(strings.ToLower(role)))
	if err != nil {
		return a.checkAuth(err)
	}

	fmt.Fprintf(a.out, "Added %s as %s\n", email, m.Role)
	return nil
}
