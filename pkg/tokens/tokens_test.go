package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	zkr "github.com/zalando/go-keyring"

	"github.com/nbench/envprofile/pkg/tokens"
)

func TestSaveAndLookup(t *testing.T) {
	zkr.MockInit()

	tokens.Save("abc123", "tok-1")
	assert.Equal(t, "tok-1", tokens.Lookup("abc123"))

	tokens.Forget("abc123")
	assert.Equal(t, "", tokens.Lookup("abc123"))
}

func TestLookupUnknownIDIsEmpty(t *testing.T) {
	zkr.MockInit()

	assert.Equal(t, "", tokens.Lookup("never-published"))
}

func TestSaveEmptyTokenIsNoop(t *testing.T) {
	zkr.MockInit()

	tokens.Save("abc123", "")
	assert.Equal(t, "", tokens.Lookup("abc123"))
}

func TestDisabledEnvSkipsKeychain(t *testing.T) {
	zkr.MockInit()
	t.Setenv(tokens.DisableEnv, "1")

	tokens.Save("abc123", "tok-1")
	assert.Equal(t, "", tokens.Lookup("abc123"))
}
