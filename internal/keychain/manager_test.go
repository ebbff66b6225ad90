// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSetGetDelete(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	_, err := m.Get(KeyLoggedIn)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(KeyLoggedIn, "true"))
	v, err := m.Get(KeyLoggedIn)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, m.Delete(KeyLoggedIn))
	require.NoError(t, m.Delete(KeyLoggedIn), "deleting a missing key is not an error")
	_, err = m.Get(KeyLoggedIn)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearSession(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	require.NoError(t, m.Set(KeyLoggedIn, "true"))
	require.NoError(t, m.Set(KeySessionCookie, "abc"))
	require.NoError(t, m.Set(KeyUsername, "alice"))

	require.NoError(t, m.ClearSession())

	for _, k := range []string{KeyLoggedIn, KeySessionCookie, KeyUsername} {
		_, err := m.Get(k)
		assert.ErrorIs(t, err, ErrNotFound, k)
	}
}
