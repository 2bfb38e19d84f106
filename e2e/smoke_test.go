//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const seedSQL = `
CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT NOT NULL, name TEXT, latitude FLOAT, longitude FLOAT, elevation FLOAT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT NOT NULL, date TEXT NOT NULL, prcp FLOAT, tobs FLOAT);
INSERT INTO station (station, name) VALUES ('USC00519281', 'WAIHEE 837.5, HI US'), ('USC00519397', 'WAIKIKI 717.2, HI US');
INSERT INTO measurement (station, date, prcp, tobs) VALUES
  ('USC00519281', '2017-08-22', 0.5, 70),
  ('USC00519281', '2017-08-23', 0.45, 80),
  ('USC00519397', '2017-08-23', 0.0, 81);
`

func TestSmoke_ClimateAPI(t *testing.T) {
	repoRoot := repoRootPath(t)

	// SQLite "service" container writes the dataset file into a host temp dir
	sqlitePath := startSQLite(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=prod",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"DB_DRIVER=sqlite3",
		"SQLITE_PATH="+sqlitePath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 5*time.Second)

	var health map[string]string
	getJSON(t, client, base+"/healthz", &health)
	if health["status"] != "ok" {
		t.Fatalf("healthz status=%q want=%q", health["status"], "ok")
	}

	var stations map[string]any
	getJSON(t, client, base+"/api/v1.0/stations", &stations)
	if stations["Total No. Stations"] != float64(2) {
		t.Errorf("Total No. Stations=%v want=2", stations["Total No. Stations"])
	}
	list, _ := stations["Final Query Result"].([]any)
	if len(list) != 2 {
		t.Fatalf("stations list=%v want 2 entries", list)
	}
	if first, _ := list[0].([]any); len(first) != 2 || first[0] != "USC00519281" || first[1] != float64(2) {
		t.Errorf("most active=%v want [USC00519281 2]", list[0])
	}

	var stats map[string]any
	getJSON(t, client, base+"/api/v1.0/20170822/20170823", &stats)
	got, _ := stats["Final Query Result"].([]any)
	if len(got) != 3 || got[0] != float64(70) || got[1] != float64(81) {
		t.Errorf("stats=%v want [70 81 avg]", got)
	}

	var bad map[string]any
	getJSON(t, client, base+"/api/v1.0/notadate", &bad)
	if bad["Correct Example"] != "/api/v1.0/20100101" {
		t.Errorf("Correct Example=%v", bad["Correct Example"])
	}

	stopServer(t, cmd)
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status=%d want=%d", url, resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json from %s: %v", url, err)
	}
}

func startSQLite(t *testing.T) string {
	t.Helper()

	hostDir := t.TempDir()
	dbPath := filepath.Join(hostDir, "hawaii.sqlite")
	if err := os.WriteFile(filepath.Join(hostDir, "seed.sql"), []byte(seedSQL), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:      "nouchka/sqlite3:latest",
		WorkingDir: "/data",
		Entrypoint: []string{"sh", "-c"},
		Cmd: []string{
			"sqlite3 /data/hawaii.sqlite < /data/seed.sql && " +
				"chmod a+r /data/hawaii.sqlite && " +
				"echo 'sqlite ready' && " +
				"tail -f /dev/null",
		},

		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Binds = append(hc.Binds, hostDir+":/data")
		},
		WaitingFor: wait.ForLog("sqlite ready").WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start sqlite container: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("sqlite db file not created: %v", err)
	}

	return dbPath
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "climate-server")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
