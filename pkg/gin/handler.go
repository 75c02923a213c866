// Package gin exposes the payment orchestrator as Gin handlers. This is a
// thin integration adapter: request acquisition and response shaping only,
// no payment logic.
package gin

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	stablepay "github.com/stablepay/stablepay-go"
	"github.com/stablepay/stablepay-go/source"
)

// sessionView is the JSON projection of a payment session returned to callers
type sessionView struct {
	SessionID     string               `json:"sessionId"`
	State         stablepay.State      `json:"state"`
	Wallet        string               `json:"wallet,omitempty"`
	TransactionID string               `json:"transactionId,omitempty"`
	Log           []stablepay.LogEntry `json:"log"`
}

func viewOf(session *stablepay.PaymentSession) sessionView {
	return sessionView{
		SessionID:     session.ID(),
		State:         session.State(),
		Wallet:        session.Wallet(),
		TransactionID: session.TransactionID(),
		Log:           session.Log(),
	}
}

// PayHandler runs one payment attempt per request. The request is read from
// the JSON body when present, otherwise from the query string. The response
// is the full session: terminal state, transaction id, and event log. A
// request that ends in FAILED maps to 402, PENDING to 202.
func PayHandler(orchestrator *stablepay.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var src stablepay.Source
		if c.Request.Body != nil && c.ContentType() == "application/json" {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
				return
			}
			src = source.JSONSource{Payload: body}
		} else {
			src = source.ValuesSource{Values: c.Request.URL.Query()}
		}

		req, err := src.PaymentRequest()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, payErr := orchestrator.Pay(c.Request.Context(), req)

		status := http.StatusOK
		switch session.State() {
		case stablepay.StateFailed:
			status = http.StatusPaymentRequired
		case stablepay.StatePending:
			status = http.StatusAccepted
		}

		view := viewOf(session)
		if payErr != nil {
			c.JSON(status, gin.H{"session": view, "error": payErr.Error()})
			return
		}
		c.JSON(status, gin.H{"session": view})
	}
}

// RecordHandler serves the best-effort local record for a submitted
// transaction id. Display and debugging only; the records are not a source
// of truth.
func RecordHandler(store *stablepay.ReceiptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, ok := store.Get(c.Param("txid"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no record for transaction"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
