package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"routenet/internal/config"
)

// TigerBeetle is a single-replica development cluster owned by one test.
type TigerBeetle struct {
	ClusterID uint64
	Addresses []string
}

// JournalConfig points a journal at the cluster.
func (tb *TigerBeetle) JournalConfig() config.JournalConfig {
	return config.JournalConfig{
		Kind:      "tigerbeetle",
		ClusterID: tb.ClusterID,
		Addresses: tb.Addresses,
	}
}

// StartTigerBeetle formats a data file in a temp dir and starts a replica on
// a free local port. The replica is killed when the test ends. The test is
// skipped when neither TB_BIN nor a tigerbeetle binary on PATH is available.
func StartTigerBeetle(t *testing.T) *TigerBeetle {
	t.Helper()
	bin := os.Getenv("TB_BIN")
	if bin == "" {
		found, err := exec.LookPath("tigerbeetle")
		if err != nil {
			t.Skip("tigerbeetle binary not available; set TB_BIN")
		}
		bin = found
	}

	dataFile := filepath.Join(t.TempDir(), "0_0.tigerbeetle")
	address := fmt.Sprintf("127.0.0.1:%d", freePort(t))

	format := exec.Command(bin, "format", "--cluster=0", "--replica=0", "--replica-count=1", "--development", dataFile)
	if out, err := format.CombinedOutput(); err != nil {
		t.Fatalf("tigerbeetle format: %v\n%s", err, out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	start := exec.CommandContext(ctx, bin, "start", "--addresses="+address, "--development", dataFile)
	if err := start.Start(); err != nil {
		cancel()
		t.Fatalf("tigerbeetle start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = start.Wait()
	})

	Eventually(t, 5*time.Second, func() error {
		conn, err := net.DialTimeout("tcp", address, 200*time.Millisecond)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	return &TigerBeetle{Addresses: []string{address}}
}

func freePort(t testing.TB) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen for free port: %v", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}
