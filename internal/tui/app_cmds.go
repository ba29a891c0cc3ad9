package tui

import (
	"context"
	"time"

	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/form"

	tea "github.com/charmbracelet/bubbletea"
)

// Async commands. Each carries the sequence/identity data its message needs so
// stale responses can be recognized and dropped in Update.

func (m *appModel) fetchListCmd(scope browse.Scope, q api.ListQuery, seq int) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		var res api.ListResult
		var err error
		if scope == browse.ScopePublic {
			res, err = client.ListPosts(ctx, q)
		} else {
			token, _ := sess.Token(ctx)
			res, err = client.ListMyPosts(ctx, token, q)
		}
		return listFetchedMsg{scope: scope, seq: seq, res: res, err: err}
	}
}

func (m *appModel) fetchPostCmd(slug string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		p, err := client.GetPost(context.Background(), slug)
		return postFetchedMsg{slug: slug, post: p, err: err}
	}
}

func (m *appModel) fetchProfileCmd() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, _ := sess.Token(ctx)
		u, err := client.Profile(ctx, token)
		return profileFetchedMsg{user: u, err: err}
	}
}

// loginCmd persists the token on success so the session is established before
// the UI reacts to the message.
func (m *appModel) loginCmd(email, password string) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, err := client.Login(ctx, email, password)
		if err == nil {
			err = sess.SetToken(ctx, token)
		}
		return loginDoneMsg{token: token, err: err}
	}
}

func (m *appModel) registerCmd(reg api.Registration) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return registerDoneMsg{err: client.Register(context.Background(), reg)}
	}
}

func (m *appModel) contactCmd(msg api.ContactMessage) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.Contact(context.Background(), msg)
		return contactDoneMsg{message: reply, err: err}
	}
}

func (m *appModel) forgotPasswordCmd(email string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return forgotDoneMsg{err: client.ForgotPassword(context.Background(), email)}
	}
}

func (m *appModel) resetPasswordCmd(token, newPassword, confirmPassword string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return resetDoneMsg{err: client.ResetPassword(context.Background(), token, newPassword, confirmPassword)}
	}
}

func (m *appModel) editPrefillCmd(id int) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, _ := sess.Token(ctx)
		p, err := client.PostForEdit(ctx, token, id)
		return editPrefillMsg{post: p, err: err}
	}
}

func (m *appModel) createPostCmd(draft api.PostDraft) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, _ := sess.Token(ctx)
		err := client.CreatePost(ctx, token, draft)
		return mutationDoneMsg{kind: mutationCreate, err: err}
	}
}

func (m *appModel) updatePostCmd(id int, draft api.PostDraft) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, _ := sess.Token(ctx)
		message, err := client.UpdatePost(ctx, token, id, draft)
		return mutationDoneMsg{kind: mutationUpdate, message: message, err: err}
	}
}

func (m *appModel) deletePostCmd(id int) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx := context.Background()
		token, _ := sess.Token(ctx)
		err := client.DeletePost(ctx, token, id)
		return mutationDoneMsg{kind: mutationDelete, err: err}
	}
}

// noticeExpiry schedules the auto-clear for a form-level notice. An empty
// field name in the expiry message addresses the notice rather than a field.
func noticeExpiry(formID string, seq int) tea.Cmd {
	return tea.Tick(form.NoticeTTL, func(time.Time) tea.Msg {
		return fieldErrExpireMsg{formID: formID, field: "", seq: seq}
	})
}

// fieldErrExpiry schedules the auto-clear for one field error.
func fieldErrExpiry(formID, field string, seq int) tea.Cmd {
	return tea.Tick(form.FieldErrorTTL, func(time.Time) tea.Msg {
		return fieldErrExpireMsg{formID: formID, field: field, seq: seq}
	})
}
