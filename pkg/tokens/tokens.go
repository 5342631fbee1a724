// Package tokens stores profile manage tokens in the OS keychain, keyed
// by profile id. The keychain is best-effort: on headless machines the
// state file's published_profiles record is the fallback, so every
// operation here degrades to a soft failure.
package tokens

import (
	"os"

	zkr "github.com/zalando/go-keyring"

	"github.com/nbench/envprofile/pkg/logging"
)

const serviceName = "envprofile"

// DisableEnv opts out of keychain access entirely, for CI and containers.
const DisableEnv = "ENVPROFILE_KEYRING_DISABLED"

// Save stores a manage token for a profile id. Failures are logged and
// swallowed; the caller always has the state-file copy.
func Save(profileID, manageToken string) {
	if disabled() || manageToken == "" {
		return
	}
	if err := zkr.Set(serviceName, profileID, manageToken); err != nil {
		logger := logging.GetLogger("tokens")
		logger.Debug().Str("profile_id", profileID).Err(err).
			Msg("Keychain store failed, relying on state file")
	}
}

// Lookup returns the stored manage token for a profile id, or "" when
// the keychain is unavailable or holds no entry.
func Lookup(profileID string) string {
	if disabled() {
		return ""
	}
	token, err := zkr.Get(serviceName, profileID)
	if err != nil {
		return ""
	}
	return token
}

// Forget removes the stored token for a profile id, if any.
func Forget(profileID string) {
	if disabled() {
		return
	}
	_ = zkr.Delete(serviceName, profileID)
}

func disabled() bool {
	return os.Getenv(DisableEnv) == "1"
}
