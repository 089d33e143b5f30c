package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

type recordingForwarder struct {
	got []store.Message
	err error
}

func (r *recordingForwarder) Forward(_ context.Context, m store.Message) error {
	r.got = append(r.got, m)
	return r.err
}

func TestSubmitStoresThenForwards(t *testing.T) {
	ctx := context.Background()
	db := store.OpenTemp(t)
	fwd := &recordingForwarder{}
	svc := NewService(db, fwd)

	id, err := svc.Submit(ctx, Form{Name: " Ada ", Email: "ada@example.com", Subject: "Hello", Message: "Hi there\n"}, "abcd")
	require.NoError(t, err)
	require.Len(t, fwd.got, 1)
	assert.Equal(t, id, fwd.got[0].ID)
	assert.Equal(t, "Ada", fwd.got[0].Name)
	assert.Equal(t, "Hi there", fwd.got[0].Body)

	msgs, err := db.Messages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Forwarded)
	assert.Equal(t, "abcd", msgs[0].HashedIP)
}

func TestSubmitRecordsForwardFailure(t *testing.T) {
	ctx := context.Background()
	db := store.OpenTemp(t)
	svc := NewService(db, &recordingForwarder{err: errors.New("relay refused")})

	id, err := svc.Submit(ctx, Form{Name: "Bob", Email: "bob@example.com", Subject: "S", Message: "M"}, "")
	require.Error(t, err)
	assert.NotZero(t, id)

	msgs, err := db.Messages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Forwarded)
	assert.Equal(t, "relay refused", msgs[0].Error)
}

func TestSMTPForwarder(t *testing.T) {
	f := NewSMTPForwarder("smtp.example.com", "587", "", "", "me@example.com")
	err := f.Forward(context.Background(), store.Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	f = NewSMTPForwarder("smtp.example.com", "587", "bot@example.com", "secret", "me@example.com")
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	f.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}
	m := store.Message{Name: "Ada", Email: "ada@example.com\r\nBcc: evil@example.com", Subject: "Hi\nthere", Body: "Body text"}
	require.NoError(t, f.Forward(context.Background(), m))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Portfolio Contact: Hi there\r\n")
	assert.NotContains(t, gotMsg, "\r\nBcc:")
	assert.Contains(t, gotMsg, "Body text")
}

func TestEndpointForwarder(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		got = map[string]string{
			"name":    r.PostForm.Get("name"),
			"email":   r.PostForm.Get("email"),
			"subject": r.PostForm.Get("subject"),
			"message": r.PostForm.Get("message"),
		}
		if strings.Contains(got["message"], "fail") {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewEndpointForwarder(srv.URL)
	m := store.Message{Name: "Ada", Email: "ada@example.com", Subject: "S", Body: "hello"}
	require.NoError(t, f.Forward(context.Background(), m))
	assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "S", "message": "hello"}, got)

	m.Body = "please fail"
	err := f.Forward(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")

	assert.ErrorIs(t, NewEndpointForwarder("").Forward(context.Background(), m), ErrNotConfigured)
}

func TestSelect(t *testing.T) {
	configured := NewSMTPForwarder("h", "25", "u", "p", "to@example.com")
	assert.Same(t, configured, Select(configured, "https://formspree.io/f/x"))

	unconfigured := NewSMTPForwarder("h", "25", "", "", "to@example.com")
	_, ok := Select(unconfigured, "https://formspree.io/f/x").(*EndpointForwarder)
	assert.True(t, ok)

	assert.IsType(t, Discard{}, Select(nil, ""))
}
