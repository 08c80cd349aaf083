package cli

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/repository"
)

// mockHandler creates a simple test handler
func mockHandler(response string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	})
}

// createTestDeps creates ServerDependencies with mock handlers for testing
func createTestDeps(port string) ServerDependencies {
	return ServerDependencies{
		ServerConfig: config.ServerConfig{Port: port},
		Storefront:   mockHandler("storefront"),
		Static:       mockHandler("static"),
	}
}

// startTestServer starts a server with the given dependencies and returns listener, server, and port
func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, int) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, server, port
}

var noKeepAlive = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

// httpGet makes an HTTP GET request and returns response body and status
func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := noKeepAlive.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_RoutesStorefrontAndStatic(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	testCases := []struct {
		path     string
		expected string
	}{
		{"/", "storefront"},
		{"/index.php?rt=checkout/cart", "storefront"},
		{"/static/logo.svg", "static"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			body, status := httpGet(t, fmt.Sprintf("http://localhost:%d%s", port, tc.path))
			if status != http.StatusOK {
				t.Errorf("Expected status 200, got %d", status)
			}
			if body != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999")

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	// GIVEN
	existingListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	defer existingListener.Close()
	port := existingListener.Addr().(*net.TCPAddr).Port

	// WHEN
	listener, server, err := StartServer(createTestDeps(fmt.Sprintf("%d", port)))

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for port already in use, got nil")
	}
}

func TestBuildServerDependencies_ServesStandInStorefront(t *testing.T) {
	// GIVEN
	deps, err := BuildServerDependencies(config.ServerConfig{Port: "0"}, repository.NewMemoryOrderRepository(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to build dependencies: %v", err)
	}

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	body, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port))
	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if !strings.Contains(body, "A place to practice your automation skills!") {
		t.Error("Home page title missing")
	}
	_, status = httpGet(t, fmt.Sprintf("http://localhost:%d/static/logo.svg", port))
	if status != http.StatusOK {
		t.Errorf("Expected logo status 200, got %d", status)
	}
}

func TestWaitForShutdown_Signals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		t.Run(sig.String(), func(t *testing.T) {
			defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

			// GIVEN
			listener, server, port := startTestServer(t, createTestDeps("0"))
			defer listener.Close()
			if _, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port)); status != http.StatusOK {
				t.Fatal("Server not responding")
			}

			shutdown := make(chan os.Signal, 1)
			errCh := make(chan error, 1)
			go func() {
				errCh <- WaitForShutdown(server, shutdown, zaptest.NewLogger(t))
			}()

			// WHEN
			shutdown <- sig

			// THEN
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("Expected nil error, got: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not complete")
			}
			if _, err := noKeepAlive.Get(fmt.Sprintf("http://localhost:%d/", port)); err == nil {
				t.Error("Expected error after shutdown, server still responding")
			}
		})
	}
}

func TestWaitForShutdown_WithActiveRequests(t *testing.T) {
	// GIVEN
	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("done"))
	})
	deps := createTestDeps("0")
	deps.Storefront = slowHandler

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	requestComplete := make(chan error, 1)
	go func() {
		resp, err := noKeepAlive.Get(fmt.Sprintf("http://localhost:%d/", port))
		if err == nil {
			resp.Body.Close()
		}
		requestComplete <- err
	}()
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitForShutdown(server, shutdown, nil)
	}()

	// WHEN
	shutdown <- syscall.SIGTERM

	// THEN
	select {
	case err := <-requestComplete:
		if err != nil {
			t.Errorf("In-flight request failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Request did not complete in time")
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForShutdown did not complete")
	}
}

func TestWaitForShutdownWithTimeout_ForcesClose(t *testing.T) {
	// GIVEN a request that outlives the grace period
	release := make(chan struct{})
	defer close(release)
	deps := createTestDeps("0")
	deps.Storefront = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	go func() {
		if resp, err := noKeepAlive.Get(fmt.Sprintf("http://localhost:%d/", port)); err == nil {
			resp.Body.Close()
		}
	}()
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitForShutdownWithTimeout(server, shutdown, time.Nanosecond, nil)
	}()

	// WHEN
	shutdown <- syscall.SIGTERM

	// THEN the server is closed without error
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForShutdownWithTimeout did not complete")
	}
}

func TestRunServe_StartupFailure(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999")

	// WHEN
	err := RunServe(deps)

	// THEN
	if err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestRunServe_StopsOnSIGTERM(t *testing.T) {
	// GIVEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunServe(createTestDeps("0"))
	}()
	time.Sleep(100 * time.Millisecond)

	// WHEN
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("Failed to get process: %v", err)
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to send signal: %v", err)
	}

	// THEN
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down within timeout")
	}
}

func BenchmarkStartServer(b *testing.B) {
	deps := createTestDeps("0")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listener, server, err := StartServer(deps)
		if err != nil {
			b.Fatalf("Failed to start server: %v", err)
		}
		server.Close()
		listener.Close()
	}
}
