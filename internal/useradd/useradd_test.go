package useradd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func(fd int) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("no more input")
		}
		a := answers[i]
		i++
		return []byte(a), nil
	}
}

type fakeRegistrar struct {
	username, email, password string
	err                       error
}

func (f *fakeRegistrar) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	f.username, f.email, f.password = username, email, password
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.User{ID: "id-1", Username: username, Email: email}, "token", nil
}

func TestParseArgs(t *testing.T) {
	opts, err := ParseArgs([]string{"-c", "cfg.json", "-username", "alice", "-email=alice@example.com", "-d", "memory://"})
	require.NoError(t, err)
	assert.Equal(t, &Options{Username: "alice", Email: "alice@example.com"}, opts)

	_, err = ParseArgs([]string{"-username", "alice"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	r := &fakeRegistrar{}
	var out bytes.Buffer

	err := Run(context.Background(), r, &Options{Username: "alice", Email: "alice@example.com"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "secret1", r.password)
	assert.Contains(t, out.String(), "Enter password: ")
	assert.Contains(t, out.String(), "created user alice (id-1)")
}

func TestRun_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "secret1", "secret2")
	r := &fakeRegistrar{}

	err := Run(context.Background(), r, &Options{Username: "alice", Email: "a@b.c"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, r.username, "nothing registered")
}

func TestRun_RegisterError(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	r := &fakeRegistrar{err: common.ErrorAlreadyExists}

	err := Run(context.Background(), r, &Options{Username: "alice", Email: "a@b.c"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRun_ReadError(t *testing.T) {
	stubPasswords(t)

	err := Run(context.Background(), &fakeRegistrar{}, &Options{Username: "alice", Email: "a@b.c"}, &bytes.Buffer{})
	assert.Error(t, err)
}
