package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"todolist/internal/backend/googletasks"
	"todolist/internal/config"
	"todolist/internal/exitcode"
	"todolist/internal/logging"
	"todolist/internal/store"
)

const (
	callbackPath         = "/callback"
	callbackWait         = 5 * time.Minute
	callbackShutdownWait = 5 * time.Second
	tokenExchangeTimeout = 30 * time.Second

	// defaultCallbackPort is the first loopback port tried; the next few
	// are tried when it is taken.
	defaultCallbackPort  = 8085
	callbackPortAttempts = 5
)

var errLoginCancelled = errors.New("cancelled")

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores Google credentials for the googletasks backend using the
// OAuth loopback flow with PKCE.
type LoginCmd struct {
	port int
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google (googletasks backend)" }
func (c *LoginCmd) Usage() string     { return "todolist login [--port <n>]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.port, "port", defaultCallbackPort, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	logger := logging.FromContext(ctx)
	if cfg.Backend != config.BackendGoogleTasks {
		logger.Warn("credentials are only used by the googletasks backend", "backend", cfg.Backend)
	}

	if !cfg.HasOAuthClient() {
		printOAuthSetup(errOut, cfg.Dir)
		return exitcode.AuthError
	}
	if cfg.HasToken() && googletasks.TokenUsable(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	startPort := c.port
	if startPort == 0 {
		startPort = defaultCallbackPort
	}
	listener, port, err := listenLoopback(startPort)
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", port, callbackPath)
	flow := newOAuthFlow(oauthConfig)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, flow.authURL())

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{Handler: flow.router()}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			flow.fail(err)
		}
	}()

	code, err := flow.wait(ctx, callbackWait)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), callbackShutdownWait)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Debug("callback server shutdown", "err", shutdownErr)
	}

	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	token, err := flow.exchange(ctx, code)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg, token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	logger.Debug("token saved", "path", cfg.TokenPath())
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// oauthFlow is one authorization attempt. The callback handler reports
// either a code or an error; only the first report is kept.
type oauthFlow struct {
	config   *oauth2.Config
	state    string
	verifier string
	codes    chan string
	errs     chan error
}

func newOAuthFlow(oc *oauth2.Config) *oauthFlow {
	return &oauthFlow{
		config:   oc,
		state:    oauth2.GenerateVerifier(),
		verifier: oauth2.GenerateVerifier(),
		codes:    make(chan string, 1),
		errs:     make(chan error, 1),
	}
}

func (f *oauthFlow) authURL() string {
	return f.config.AuthCodeURL(f.state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(f.verifier),
	)
}

func (f *oauthFlow) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(callbackPath, f.handleCallback)
	return r
}

func (f *oauthFlow) handleCallback(c *gin.Context) {
	if c.Query("state") != f.state {
		c.String(http.StatusBadRequest, "State mismatch")
		f.fail(errors.New("oauth state mismatch"))
		return
	}
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "No code in callback")
		f.fail(errors.New("no code in callback"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>"))
	select {
	case f.codes <- code:
	default:
	}
}

func (f *oauthFlow) fail(err error) {
	select {
	case f.errs <- err:
	default:
	}
}

func (f *oauthFlow) wait(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-f.codes:
		return code, nil
	case err := <-f.errs:
		return "", err
	case <-timer.C:
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errLoginCancelled
	}
}

func (f *oauthFlow) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	return f.config.Exchange(ctx, code, oauth2.VerifierOption(f.verifier))
}

// listenLoopback binds the first free localhost port from start.
func listenLoopback(start int) (net.Listener, int, error) {
	for port := start; port < start+callbackPortAttempts; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return listener, port, nil
		}
	}
	return nil, 0, errors.New("no available port found")
}

func printOAuthSetup(w io.Writer, dir string) {
	fmt.Fprintf(w, "error: %s not found in %s\n\n", config.OAuthClientFile, dir)
	fmt.Fprint(w, `The googletasks backend needs Google OAuth credentials:

1. Open https://console.cloud.google.com/apis/credentials
2. Create or select a project and enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
3. Create an OAuth client ID of type 'Desktop app' and download the JSON file
`)
	fmt.Fprintf(w, "4. Save it as %s/%s\n\n", dir, config.OAuthClientFile)
	fmt.Fprintf(w, "Then run 'todolist login' again with %s=%s.\n", config.EnvBackend, config.BackendGoogleTasks)
}
