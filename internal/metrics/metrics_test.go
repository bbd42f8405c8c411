package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CodeBlocksTotal.WithLabelValues("go"))
	CodeBlocksTotal.WithLabelValues("go").Inc()
	if got := testutil.ToFloat64(CodeBlocksTotal.WithLabelValues("go")); got != before+1 {
		t.Errorf("code blocks counter = %v, want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	ChatMessagesTotal.WithLabelValues("user").Inc()
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gochat_messages_total") {
		t.Error("metrics output missing gochat_messages_total")
	}
}
