// pkg/hooks/run_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), recording command runner
// PURPOSE: Test the maintenance run and the framework check for user hooks

package hooks_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUserHooks_Framework(t *testing.T) {
	tests := []struct {
		name       string
		installed  []string
		required   string
		wantKept   bool
		wantRunCmd bool
	}{
		{name: "framework_present", installed: []string{"ubuntu-sdk-13.10"}, required: "ubuntu-sdk-13.10", wantKept: true},
		{name: "one_of_several_installed", installed: []string{"ubuntu-sdk-13.10", "ubuntu-sdk-14.04"}, required: "ubuntu-sdk-13.10", wantKept: true},
		{name: "framework_missing", required: "ubuntu-sdk-13.10", wantRunCmd: true},
		{name: "one_requirement_missing", installed: []string{"ubuntu-sdk-13.10"}, required: "ubuntu-sdk-13.10, ubuntu-sdk-13.10-html", wantRunCmd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			for _, fw := range tt.installed {
				e.writeFramework(fw)
			}
			e.writeHook("test", "Pattern: "+e.root+"/out/${id}.test\nUser-Level: yes\nExec: test-update\n")
			e.installClick("test-package", "1.0",
				`{"framework": "`+tt.required+`", "hooks": {"app": {"test": "target"}}}`, true, testUser)
			e.symlink(e.path(".click", "users", testUser, "test-package", "target"), "out", "test-package_app_1.0.test")

			require.NoError(t, e.engine.RunUserHooks(context.Background(), testUser))

			assert.Equal(t, tt.wantKept, lexists(e.path("out", "test-package_app_1.0.test")))
			if tt.wantRunCmd {
				assert.Equal(t, []command{{Command: "test-update", Account: testUser}}, e.commands)
			} else {
				assert.Empty(t, e.commands)
			}
		})
	}
}

func TestRunUserHooks_RejectsPseudoUsers(t *testing.T) {
	e := newEnv(t)
	for _, user := range []string{"", "@all", "@gcinuse"} {
		err := e.engine.RunUserHooks(context.Background(), user)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "user %q", user)
		err = e.engine.SyncUserHooks(context.Background(), user)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "user %q", user)
	}
}

func TestRunSystemHooks_ContinuesAfterFailure(t *testing.T) {
	e := newEnv(t)
	e.writeHook("a", "Pattern: "+e.root+"/a/${id}.a\nExec: broken\nUser: root\n")
	e.writeHook("b", "Pattern: "+e.root+"/b/${id}.b\nExec: b-update\nUser: root\n")
	e.writeHook("u", "Pattern: "+e.root+"/u/${id}.u\nUser-Level: yes\nExec: u-update\n")
	e.installClick("test", "1.0", `{"hooks": {"app": {"a": "foo.a", "b": "foo.b", "u": "foo.u"}}}`, true, "")
	e.status["broken"] = 2

	err := e.engine.RunSystemHooks(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))

	assert.Equal(t, e.path("test", "1.0", "foo.a"), readlink(t, e.path("a", "test_app_1.0.a")))
	assert.Equal(t, e.path("test", "1.0", "foo.b"), readlink(t, e.path("b", "test_app_1.0.b")))
	assert.False(t, lexists(e.path("u")), "user-level hooks are not part of the system run")
	assert.Equal(t, []command{{Command: "broken", Account: "root"}, {Command: "b-update", Account: "root"}}, e.commands)
}

func TestRunSystemHooks_Cancelled(t *testing.T) {
	e := newEnv(t)
	e.writeHook("a", "Pattern: "+e.root+"/a/${id}.a\nExec: a-update\nUser: root\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.engine.RunSystemHooks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, e.commands)
}

func TestRun(t *testing.T) {
	e := newEnv(t, withLayers("db"))
	e.writeFramework("ubuntu-sdk-13.10")
	e.writeHook("system", "Pattern: "+e.root+"/system/${id}\nExec: system-update\nUser: root\n")
	e.writeHook("user", "Pattern: "+e.root+"/home/${user}/${id}.u\nUser-Level: yes\nExec: user-update\n")
	e.installClick("good", "1.0", `{"framework": "ubuntu-sdk-13.10", "hooks": {"app": {"system": "s", "user": "u"}}}`, true, "alice")
	e.installClick("orphan", "1.0", `{"framework": "ubuntu-sdk-99.99", "hooks": {"app": {"user": "u"}}}`, true, "alice")
	e.symlink("stale", "home", "alice", "orphan_app_1.0.u")

	require.NoError(t, e.engine.Run(context.Background()))

	assert.Equal(t, e.path("db", "good", "1.0", "s"), readlink(t, e.path("system", "good_app_1.0")))
	assert.Equal(t, []string{"good_app_1.0.u"}, sortedKeys(links(t, e.path("home", "alice"))))
	assert.Equal(t, []command{
		{Command: "system-update", Account: "root"},
		{Command: "user-update", Account: "alice"},
		{Command: "user-update", Account: "alice"},
	}, e.commands)
}
