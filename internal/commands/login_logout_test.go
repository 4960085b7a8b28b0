package commands_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// signedToken returns an HS256 access token for username expiring at exp.
func signedToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	claims := config.Claims{
		Username: username,
		UserID:   7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

// runInDir runs cmd with the config dir fixed to dir, so token state
// carries across runs.
func runInDir(t *testing.T, cmd commands.Command, svc service.Service, dir string, args []string, input string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   dir,
		Input: strings.NewReader(input),
	}
	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestLoginCommand_SavesToken(t *testing.T) {
	dir := t.TempDir()
	svc := testutil.NewFakeService()
	svc.Token = signedToken(t, "alice", time.Now().Add(time.Hour))
	svc.AddUser("alice", "s3cret")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("", "s3cret")
	stdout, stderr, code := runInDir(t, cmd, svc, dir, []string{"alice"}, "")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	cfg := &config.Config{Dir: dir}
	tok, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("expected stored token, got %v", err)
	}
	if tok.AccessToken != svc.Token {
		t.Errorf("stored token mismatch: %q", tok.AccessToken)
	}
	if tok.Expiry.IsZero() {
		t.Error("expected expiry from the exp claim")
	}

	info, err := os.Stat(filepath.Join(dir, config.TokenFile))
	if err != nil {
		t.Fatalf("stat token: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestLoginCommand_PromptsForPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "s3cret")

	cmd := &commands.LoginCmd{}
	_, stderr, code := runInDir(t, cmd, svc, t.TempDir(), nil, "alice\ns3cret\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stderr != "Username: Password: " {
		t.Errorf("expected prompts, got %q", stderr)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	dir := t.TempDir()
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "s3cret")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("alice", "wrong")
	stdout, stderr, code := runInDir(t, cmd, svc, dir, nil, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: login failed: Invalid credentials\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if (&config.Config{Dir: dir}).HasToken() {
		t.Error("no token should be stored after a failed login")
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken(signedToken(t, "alice", time.Now().Add(time.Hour)), "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	svc := testutil.NewFakeService()
	cmd := &commands.LoginCmd{}
	stdout, _, code := runInDir(t, cmd, svc, dir, []string{"alice"}, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
	if svc.CallCount("Login") != 0 {
		t.Errorf("expected no Login call, got %d", svc.CallCount("Login"))
	}
}

func TestLoginCommand_ExpiredTokenLogsInAgain(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken(signedToken(t, "alice", time.Now().Add(-time.Hour)), "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	svc := testutil.NewFakeService()
	svc.AddUser("alice", "s3cret")
	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("alice", "s3cret")
	stdout, _, code := runInDir(t, cmd, svc, dir, nil, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if svc.CallCount("Login") != 1 {
		t.Errorf("expected one Login call, got %d", svc.CallCount("Login"))
	}
}

func TestSignupCommand_LogsIn(t *testing.T) {
	dir := t.TempDir()
	svc := testutil.NewFakeService()

	cmd := &commands.SignupCmd{}
	cmd.SetCredentials(service.Credentials{Email: "alice@example.com"})
	stdout, stderr, code := runInDir(t, cmd, svc, dir, []string{"alice"}, "pw\npw\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if stderr != "Password: Confirm password: " {
		t.Errorf("expected password prompts, got %q", stderr)
	}
	if !(&config.Config{Dir: dir}).HasToken() {
		t.Error("signup should store the issued token")
	}

	// The new account can log in.
	login := &commands.LoginCmd{}
	login.SetCredentials("alice", "pw")
	_, _, code = runInDir(t, login, svc, t.TempDir(), nil, "")
	if code != exitcode.Success {
		t.Errorf("expected login to succeed, got %d", code)
	}
}

func TestSignupCommand_Rejected(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SignupErr = &service.APIError{Action: "signup", Code: http.StatusBadRequest, Message: "Username already exists"}

	cmd := &commands.SignupCmd{}
	cmd.SetCredentials(service.Credentials{Username: "alice", Email: "alice@example.com", Password: "pw"})
	_, stderr, code := runInDir(t, cmd, svc, t.TempDir(), nil, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: signup failed: Username already exists\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestSignupCommand_MissingEmail(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.SignupCmd{}
	_, stderr, code := runInDir(t, cmd, svc, t.TempDir(), []string{"alice"}, "")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: email required\n") {
		t.Errorf("expected email required, got %q", stderr)
	}
	if svc.CallCount("Signup") != 0 {
		t.Errorf("expected no Signup call, got %d", svc.CallCount("Signup"))
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout succeeds without a token
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	stdout, stderr, code := runInDir(t, cmd, nil, t.TempDir(), nil, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %q", stdout)
	}
}

// TestLogoutCommand_RemovesToken verifies logout deletes the stored token
func TestLogoutCommand_RemovesToken(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken("abc", "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runInDir(t, cmd, nil, dir, nil, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if cfg.HasToken() {
		t.Error("token should be removed")
	}
}

func TestHomeCommand(t *testing.T) {
	dir := t.TempDir()
	svc := testutil.NewFakeService()
	svc.Token = signedToken(t, "alice", time.Now().Add(time.Hour))
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken(svc.Token, "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	cmd := &commands.HomeCmd{}
	stdout, stderr, code := runInDir(t, cmd, svc, dir, nil, "")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "Welcome to dashboard\n" {
		t.Errorf("expected home message, got %q", stdout)
	}
}

func TestHomeCommand_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.HomeCmd{}
	_, stderr, code := runInDir(t, cmd, svc, t.TempDir(), nil, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: not logged in (run: todo login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if svc.CallCount("FetchHome") != 0 {
		t.Errorf("expected no FetchHome call, got %d", svc.CallCount("FetchHome"))
	}
}

func TestHomeCommand_Expired(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken(signedToken(t, "alice", time.Now().Add(-time.Minute)), "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	cmd := &commands.HomeCmd{}
	_, stderr, code := runInDir(t, cmd, testutil.NewFakeService(), dir, nil, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: session expired (run: todo login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestHomeCommand_RejectedToken(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken("stale-token", "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	cmd := &commands.HomeCmd{}
	_, stderr, code := runInDir(t, cmd, testutil.NewFakeService(), dir, nil, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error: home: HTTP 401") {
		t.Errorf("expected auth error, got %q", stderr)
	}
}

func TestWhoamiCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := cfg.SaveToken(config.NewToken(signedToken(t, "alice", time.Now().Add(time.Hour)), "")); err != nil {
		t.Fatalf("save token: %v", err)
	}

	cmd := &commands.WhoamiCmd{}
	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), &config.Config{Dir: dir, Quiet: true}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "alice\n" {
		t.Errorf("expected 'alice\\n', got %q", outBuf.String())
	}
}

func TestResetPasswordCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ResetPasswordCmd{}
	stdout, _, code := runInDir(t, cmd, svc, t.TempDir(), []string{"alice@example.com"}, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Mail sent\n" {
		t.Errorf("expected 'Mail sent', got %q", stdout)
	}
}

func TestResetPasswordCommand_NoEmail(t *testing.T) {
	cmd := &commands.ResetPasswordCmd{}
	_, stderr, code := runInDir(t, cmd, testutil.NewFakeService(), t.TempDir(), nil, "")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: email required\n" {
		t.Errorf("expected 'error: email required', got %q", stderr)
	}
}

func TestResetConfirmCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ResetConfirmCmd{}
	stdout, stderr, code := runInDir(t, cmd, svc, t.TempDir(), []string{"MQ", "abc-123"}, "newpass\n")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "New password: " {
		t.Errorf("expected password prompt, got %q", stderr)
	}
	if stdout != "Password reset success!\n" {
		t.Errorf("expected success message, got %q", stdout)
	}
}

func TestResetConfirmCommand_InvalidLink(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ResetErr = &service.APIError{Action: "password-reset-confirm", Code: http.StatusBadRequest, Message: "Invalid token"}

	cmd := &commands.ResetConfirmCmd{}
	cmd.SetPassword("newpass")
	_, stderr, code := runInDir(t, cmd, svc, t.TempDir(), []string{"MQ", "bad"}, "")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: password-reset-confirm failed: Invalid token\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}
