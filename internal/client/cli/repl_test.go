package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Me(ctx context.Context) error {
	return f.record("me")
}
func (f *fakeExec) Add(ctx context.Context) error {
	return f.record("add")
}
func (f *fakeExec) Show(ctx context.Context, id string) error {
	return f.record("show " + id)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context, args []string) error {
	return f.record(strings.TrimSpace("list " + strings.Join(args, " ")))
}
func (f *fakeExec) SetVisibility(ctx context.Context, id, visibility string) error {
	return f.record(visibility + " " + id)
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	return f.record("delete " + id)
}
func (f *fakeExec) Attach(ctx context.Context, id, path string) error {
	return f.record("attach " + id + " " + path)
}
func (f *fakeExec) Public(ctx context.Context, handle string, args []string) error {
	return f.record(strings.TrimSpace("public " + handle + " " + strings.Join(args, " ")))
}
func (f *fakeExec) Download(ctx context.Context, handle, id string) error {
	return f.record("download " + handle + " " + id)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"",
		"login",
		"list",
		"l -t lab docker",
		"add",
		"show 42",
		"publish 42",
		"hide 42",
		"attach 42 my cert.pdf",
		"public alice -t project",
		"download alice 42",
		"delete 42",
		"me",
		"logout",
		"exit",
		"register",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"list",
		"list -t lab docker",
		"add",
		"show 42",
		"public 42",
		"private 42",
		"attach 42 my cert.pdf",
		"public alice -t project",
		"download alice 42",
		"delete 42",
		"me",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	printed := captureOutput(t)

	input := "show\npublish\ndelete 1 2\nattach 1\npublic\ndownload alice\nfoobar\n"
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Empty(t, exec.calls)
	out := strings.Join(*printed, "\n")
	for _, want := range []string{
		"Usage: show <id>",
		"Usage: publish <id>",
		"Usage: delete <id>",
		"Usage: attach <id> <file>",
		"Usage: public <handle>",
		"Usage: download <handle> <id>",
		"Unknown command: foobar",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	printed := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp")))

	assert.Contains(t, *printed, guestHelp)
	assert.Contains(t, *printed, userHelp)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		args   []string
		q, typ string
	}{
		{nil, "", ""},
		{[]string{"docker", "k8s"}, "docker k8s", ""},
		{[]string{"-t", "lab"}, "", "lab"},
		{[]string{"-t", "dsa", "graphs"}, "graphs", "dsa"},
		{[]string{"-t"}, "-t", ""},
	}
	for _, tt := range tests {
		q, typ := parseFilter(tt.args)
		assert.Equal(t, tt.q, q)
		assert.Equal(t, tt.typ, typ)
	}
}
