// Package ofx fetches account balances from an institution's OFX 2.x
// endpoint. Credentials travel in the request body, so links store them
// encrypted and the service decrypts just before the call.
package ofx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client handles OFX bank-statement requests
type Client struct {
	client *http.Client
	log    *logrus.Logger
}

// Credentials are the decrypted link fields needed for one request.
type Credentials struct {
	Username string
	Password string
	OrgName  string
	FID      string
	BankID   string
	AcctID   string
}

// Balance is the institution-reported ledger balance.
type Balance struct {
	Amount decimal.Decimal
	AsOf   time.Time
}

// NewClient initializes a new OFX client
func NewClient(log *logrus.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildRequest creates an OFX 2.x statement request asking for the
// current ledger balance only (no transaction list).
func (c *Client) buildRequest(creds Credentials, now time.Time) string {
	stamp := now.UTC().Format("20060102150405")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<?OFX OFXHEADER="200" VERSION="211" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
<OFX>
	<SIGNONMSGSRQV1>
		<SONRQ>
			<DTCLIENT>%s</DTCLIENT>
			<USERID>%s</USERID>
			<USERPASS>%s</USERPASS>
			<LANGUAGE>ENG</LANGUAGE>
			<FI><ORG>%s</ORG><FID>%s</FID></FI>
			<APPID>BANKED</APPID>
			<APPVER>0100</APPVER>
		</SONRQ>
	</SIGNONMSGSRQV1>
	<BANKMSGSRQV1>
		<STMTTRNRQ>
			<TRNUID>%s</TRNUID>
			<STMTRQ>
				<BANKACCTFROM>
					<BANKID>%s</BANKID>
					<ACCTID>%s</ACCTID>
					<ACCTTYPE>CHECKING</ACCTTYPE>
				</BANKACCTFROM>
				<INCTRAN><INCLUDE>N</INCLUDE></INCTRAN>
			</STMTRQ>
		</STMTTRNRQ>
	</BANKMSGSRQV1>
</OFX>`, stamp, creds.Username, creds.Password, creds.OrgName, creds.FID, stamp, creds.BankID, creds.AcctID)
}

// sendRequest posts the OFX request to the institution
func (c *Client) sendRequest(ctx context.Context, url, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-ofx")
	req.Header.Set("Accept", "application/x-ofx")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("OFX response: %s", string(raw))
	return raw, nil
}

// parseResponse extracts the ledger balance from the statement response
func (c *Client) parseResponse(raw []byte) (Balance, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return Balance{}, fmt.Errorf("failed to parse OFX XML: %w", err)
	}

	bal := doc.FindElement("//STMTRS/LEDGERBAL")
	if bal == nil {
		return Balance{}, fmt.Errorf("no ledger balance in OFX response")
	}
	amtEl := bal.FindElement("./BALAMT")
	if amtEl == nil {
		return Balance{}, fmt.Errorf("BALAMT missing from ledger balance")
	}
	amount, err := decimal.NewFromString(amtEl.Text())
	if err != nil {
		return Balance{}, fmt.Errorf("failed to parse balance amount: %w", err)
	}

	asOf := time.Now().UTC()
	if dtEl := bal.FindElement("./DTASOF"); dtEl != nil {
		// OFX timestamps may carry a timezone suffix; the date prefix is
		// all the app needs.
		txt := dtEl.Text()
		if len(txt) >= 8 {
			if t, err := time.Parse("20060102", txt[:8]); err == nil {
				asOf = t
			}
		}
	}

	return Balance{Amount: amount, AsOf: asOf}, nil
}

// FetchBalance retrieves the current ledger balance for a linked account.
func (c *Client) FetchBalance(ctx context.Context, url string, creds Credentials) (Balance, error) {
	body := c.buildRequest(creds, time.Now())
	raw, err := c.sendRequest(ctx, url, body)
	if err != nil {
		return Balance{}, err
	}

	bal, err := c.parseResponse(raw)
	if err != nil {
		return Balance{}, err
	}

	c.log.Infof("Fetched balance %s as of %s", bal.Amount, bal.AsOf.Format("2006-01-02"))
	return bal, nil
}
