package flows

import (
	"context"
	"errors"
	"testing"
)

func fakeRotate(saved *map[string]string) RotateDeps {
	return RotateDeps{
		IssuePair: func(id IdentityRecord) (string, string, error) {
			return "access-" + id.ID, "refresh-" + id.ID, nil
		},
		Fingerprint: func(v string) string { return "fp(" + v + ")" },
		SaveFingerprint: func(_ context.Context, id, fp string) error {
			(*saved)[id] = fp
			return nil
		},
	}
}

func singleIdentityLoginDeps(saved *map[string]string) LoginDeps {
	return LoginDeps{
		FindByEmail: func(_ context.Context, email string) (IdentityRecord, bool, error) {
			if email != "a@b.com" {
				return IdentityRecord{}, false, nil
			}
			return IdentityRecord{ID: "u1", Email: email, PasswordHash: "stored"}, true, nil
		},
		VerifyPassword: func(_ context.Context, plaintext, stored string) (bool, error) {
			return plaintext == "pw" && stored == "stored", nil
		},
		Rotate: fakeRotate(saved),
	}
}

func TestRunLoginSuccessPersistsFingerprint(t *testing.T) {
	saved := map[string]string{}
	res := RunLogin(context.Background(), "a@b.com", "pw", singleIdentityLoginDeps(&saved))

	if res.Failure != LoginFailureNone {
		t.Fatalf("failure = %v err = %v", res.Failure, res.Err)
	}
	if res.AccessToken != "access-u1" || res.RefreshToken != "refresh-u1" {
		t.Fatalf("unexpected pair %q %q", res.AccessToken, res.RefreshToken)
	}
	if saved["u1"] != "fp(refresh-u1)" {
		t.Fatalf("fingerprint not persisted, saved = %v", saved)
	}
}

func TestRunLoginFailureKinds(t *testing.T) {
	saved := map[string]string{}

	cases := []struct {
		name     string
		email    string
		password string
		want     LoginFailureKind
	}{
		{"unknown email", "nobody@b.com", "pw", LoginFailureUnknownEmail},
		{"wrong password", "a@b.com", "not-pw", LoginFailurePasswordMismatch},
		{"empty password", "a@b.com", "", LoginFailurePasswordMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := RunLogin(context.Background(), tc.email, tc.password, singleIdentityLoginDeps(&saved))
			if res.Failure != tc.want {
				t.Fatalf("failure = %v, want %v", res.Failure, tc.want)
			}
			if res.AccessToken != "" || res.RefreshToken != "" {
				t.Fatal("failed login must not carry tokens")
			}
		})
	}

	if len(saved) != 0 {
		t.Fatalf("failed logins must not persist fingerprints: %v", saved)
	}
}

func TestRunLoginVerifierErrorFailsClosed(t *testing.T) {
	saved := map[string]string{}
	deps := singleIdentityLoginDeps(&saved)
	hasherErr := errors.New("malformed credential hash")
	deps.VerifyPassword = func(context.Context, string, string) (bool, error) {
		return false, hasherErr
	}

	res := RunLogin(context.Background(), "a@b.com", "pw", deps)
	if res.Failure != LoginFailureVerify {
		t.Fatalf("failure = %v", res.Failure)
	}
	if !errors.Is(res.Err, hasherErr) {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestRunLoginRateLimited(t *testing.T) {
	saved := map[string]string{}
	deps := singleIdentityLoginDeps(&saved)
	limitErr := errors.New("rate limited")
	deps.CheckLoginRate = func(context.Context, string) error { return limitErr }

	res := RunLogin(context.Background(), "a@b.com", "pw", deps)
	if res.Failure != LoginFailureRateLimited || !errors.Is(res.Err, limitErr) {
		t.Fatalf("failure = %v err = %v", res.Failure, res.Err)
	}
}

func refreshDepsFor(identity *IdentityRecord, saved *map[string]string) RefreshDeps {
	return RefreshDeps{
		FindByID: func(_ context.Context, id string) (IdentityRecord, bool, error) {
			if identity == nil || identity.ID != id {
				return IdentityRecord{}, false, nil
			}
			return *identity, true, nil
		},
		Fingerprint: func(v string) string { return "fp(" + v + ")" },
		Rotate:      fakeRotate(saved),
	}
}

func TestRunRefreshRotationIsSingleUse(t *testing.T) {
	saved := map[string]string{}
	identity := &IdentityRecord{ID: "u1", RefreshFingerprint: "fp(refresh-old)"}
	deps := refreshDepsFor(identity, &saved)

	res := RunRefresh(context.Background(), "u1", "refresh-old", deps)
	if res.Failure != RefreshFailureNone {
		t.Fatalf("failure = %v err = %v", res.Failure, res.Err)
	}

	// The store now holds the new fingerprint; replay the consumed token.
	identity.RefreshFingerprint = saved["u1"]
	replay := RunRefresh(context.Background(), "u1", "refresh-old", deps)
	if replay.Failure != RefreshFailureFingerprintMismatch {
		t.Fatalf("replay failure = %v, want fingerprint mismatch", replay.Failure)
	}
}

func TestRunRefreshFailureKinds(t *testing.T) {
	saved := map[string]string{}

	t.Run("identity missing", func(t *testing.T) {
		deps := refreshDepsFor(nil, &saved)
		res := RunRefresh(context.Background(), "ghost", "token", deps)
		if res.Failure != RefreshFailureIdentityMissing {
			t.Fatalf("failure = %v", res.Failure)
		}
	})

	t.Run("no active token", func(t *testing.T) {
		deps := refreshDepsFor(&IdentityRecord{ID: "u1"}, &saved)
		res := RunRefresh(context.Background(), "u1", "token", deps)
		if res.Failure != RefreshFailureNoActiveToken {
			t.Fatalf("failure = %v", res.Failure)
		}
	})

	t.Run("store error", func(t *testing.T) {
		deps := refreshDepsFor(nil, &saved)
		storeErr := errors.New("connection reset")
		deps.FindByID = func(context.Context, string) (IdentityRecord, bool, error) {
			return IdentityRecord{}, false, storeErr
		}
		res := RunRefresh(context.Background(), "u1", "token", deps)
		if res.Failure != RefreshFailureStore || !errors.Is(res.Err, storeErr) {
			t.Fatalf("failure = %v err = %v", res.Failure, res.Err)
		}
	})
}

func TestRunLogoutSwallowsMissingIdentityOnly(t *testing.T) {
	missing := errors.New("identity missing")
	boom := errors.New("store down")

	deps := LogoutDeps{
		ClearFingerprint:  func(context.Context, string) error { return missing },
		IsIdentityMissing: func(err error) bool { return errors.Is(err, missing) },
	}
	if err := RunLogout(context.Background(), "ghost", deps); err != nil {
		t.Fatalf("missing identity must not fail logout: %v", err)
	}

	deps.ClearFingerprint = func(context.Context, string) error { return boom }
	if err := RunLogout(context.Background(), "u1", deps); !errors.Is(err, boom) {
		t.Fatalf("unexpected err %v", err)
	}

	deps.ClearFingerprint = func(context.Context, string) error { return nil }
	if err := RunLogout(context.Background(), "u1", deps); err != nil {
		t.Fatalf("clean logout failed: %v", err)
	}
}
