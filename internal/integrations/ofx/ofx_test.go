package ofx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const sampleResponse = `<?xml version="1.0" encoding="utf-8"?>
<OFX>
	<SIGNONMSGSRSV1><SONRS><STATUS><CODE>0</CODE><SEVERITY>INFO</SEVERITY></STATUS></SONRS></SIGNONMSGSRSV1>
	<BANKMSGSRSV1>
		<STMTTRNRS>
			<TRNUID>1</TRNUID>
			<STMTRS>
				<CURDEF>USD</CURDEF>
				<LEDGERBAL>
					<BALAMT>1523.47</BALAMT>
					<DTASOF>20250310120000.000[-5:EST]</DTASOF>
				</LEDGERBAL>
			</STMTRS>
		</STMTTRNRS>
	</BANKMSGSRSV1>
</OFX>`

func testCreds() Credentials {
	return Credentials{
		Username: "user",
		Password: "pass",
		OrgName:  "Test Bank",
		FID:      "1234",
		BankID:   "011000015",
		AcctID:   "987654321",
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestFetchBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-ofx" {
			t.Errorf("content type = %q", ct)
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient(quietLogger())
	bal, err := c.FetchBalance(context.Background(), srv.URL, testCreds())
	if err != nil {
		t.Fatalf("FetchBalance: %v", err)
	}
	want, _ := decimal.NewFromString("1523.47")
	if !bal.Amount.Equal(want) {
		t.Errorf("balance = %s, want 1523.47", bal.Amount)
	}
	if bal.AsOf.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("as-of = %s, want 2025-03-10", bal.AsOf)
	}
}

func TestFetchBalanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(quietLogger())
	if _, err := c.FetchBalance(context.Background(), srv.URL, testCreds()); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestParseResponseMissingBalance(t *testing.T) {
	c := NewClient(quietLogger())
	if _, err := c.parseResponse([]byte(`<OFX><BANKMSGSRSV1></BANKMSGSRSV1></OFX>`)); err == nil {
		t.Error("expected error for response without LEDGERBAL")
	}
	if _, err := c.parseResponse([]byte(`not xml at all <<`)); err == nil {
		t.Error("expected error for malformed XML")
	}
}
