// Package rpctest provides an in-memory JSON-RPC server that answers the subset
// of Solana RPC methods used by the tokentrade client.
package rpctest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

// Account is the state the server reports for an address.
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Executable bool
	Data       []byte

	// TokenAmount is reported through jsonParsed encoding when set.
	TokenAmount *uint64
}

// Subscription is a signatureSubscribe request seen by the websocket endpoint.
type Subscription struct {
	Signature  solana.Signature
	Commitment string
}

// Server is a fake Solana cluster.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	accounts     map[solana.PublicKey]*Account
	transactions []*solana.Transaction
	bySignature  map[solana.Signature]*solana.Transaction
	statuses     map[solana.Signature]any
	logs         map[solana.Signature][]string
	calls        map[string]int
	subs         []Subscription

	// RentExemption is returned by getMinimumBalanceForRentExemption.
	RentExemption uint64
	// AirdropFails makes requestAirdrop return an RPC error.
	AirdropFails bool
	// PreflightFails makes sendTransaction return a preflight RPC error.
	PreflightFails bool
	// OnTransaction inspects every submitted transaction. A non-nil result is
	// reported as the transaction error in its signature status.
	OnTransaction func(tx *solana.Transaction) any
	// Logs returns the log messages reported by getTransaction.
	Logs func(tx *solana.Transaction) []string
}

// NewServer starts a fake cluster. It is closed when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		accounts:      make(map[solana.PublicKey]*Account),
		bySignature:   make(map[solana.Signature]*solana.Transaction),
		statuses:      make(map[solana.Signature]any),
		logs:          make(map[solana.Signature][]string),
		calls:         make(map[string]int),
		RentExemption: 1_461_600,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetAccount stores account state for key. A nil account removes it.
func (s *Server) SetAccount(key solana.PublicKey, account *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account == nil {
		delete(s.accounts, key)
		return
	}
	s.accounts[key] = account
}

// SetBalance sets the lamports of key, creating a system account if needed.
func (s *Server) SetBalance(key solana.PublicKey, lamports uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account(key).Lamports = lamports
}

// Balance returns the lamports of key.
func (s *Server) Balance(key solana.PublicKey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[key]; ok {
		return a.Lamports
	}
	return 0
}

// Transactions returns the submitted transactions in order.
func (s *Server) Transactions() []*solana.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*solana.Transaction(nil), s.transactions...)
}

// Calls returns how many times method was invoked.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Subscriptions returns the signature subscriptions received in order.
func (s *Server) Subscriptions() []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Subscription(nil), s.subs...)
}

// WebsocketURL returns the ws:// address of the subscription endpoint.
func (s *Server) WebsocketURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *Server) account(key solana.PublicKey) *Account {
	a, ok := s.accounts[key]
	if !ok {
		a = &Account{Owner: solana.SystemProgramID}
		s.accounts[key] = a
	}
	return a
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		s.handleWebsocket(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := gjson.ParseBytes(body)
	method := req.Get("method").String()
	params := req.Get("params").Array()

	s.mu.Lock()
	s.calls[method]++
	result, rpcErr := s.dispatch(method, params)
	s.mu.Unlock()

	resp := response{JSONRPC: "2.0", ID: json.RawMessage(req.Get("id").Raw)}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

var upgrader = websocket.Upgrader{}

// handleWebsocket answers signatureSubscribe. A signature whose status is
// already known is notified right after the subscription is acknowledged.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var nextID uint64
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		req := gjson.ParseBytes(msg)
		method := req.Get("method").String()
		id := json.RawMessage(req.Get("id").Raw)

		s.mu.Lock()
		s.calls[method]++
		s.mu.Unlock()

		if method != "signatureSubscribe" {
			_ = conn.WriteJSON(response{JSONRPC: "2.0", ID: id, Result: true})
			continue
		}

		params := req.Get("params").Array()
		if len(params) == 0 {
			_ = conn.WriteJSON(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: -32602, Message: "missing signature"}})
			continue
		}
		sig, err := solana.SignatureFromBase58(params[0].String())
		if err != nil {
			_ = conn.WriteJSON(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: -32602, Message: err.Error()}})
			continue
		}
		commitment := ""
		if len(params) > 1 {
			commitment = params[1].Get("commitment").String()
		}

		s.mu.Lock()
		s.subs = append(s.subs, Subscription{Signature: sig, Commitment: commitment})
		txErr, known := s.statuses[sig]
		s.mu.Unlock()

		nextID++
		if err := conn.WriteJSON(response{JSONRPC: "2.0", ID: id, Result: nextID}); err != nil {
			return
		}
		if !known {
			continue
		}
		notification := map[string]any{
			"jsonrpc": "2.0",
			"method":  "signatureNotification",
			"params": map[string]any{
				"subscription": nextID,
				"result":       contextValue(map[string]any{"err": txErr}),
			},
		}
		if err := conn.WriteJSON(notification); err != nil {
			return
		}
	}
}

func contextValue(value any) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   value,
	}
}

func (s *Server) dispatch(method string, params []gjson.Result) (any, *rpcError) {
	switch method {
	case "getVersion":
		return map[string]any{"solana-core": "1.18.26", "feature-set": 3469865029}, nil

	case "getBalance":
		key, err := pubkeyParam(params)
		if err != nil {
			return nil, err
		}
		var lamports uint64
		if a, ok := s.accounts[key]; ok {
			lamports = a.Lamports
		}
		return contextValue(lamports), nil

	case "getAccountInfo":
		key, err := pubkeyParam(params)
		if err != nil {
			return nil, err
		}
		a, ok := s.accounts[key]
		if !ok {
			return contextValue(nil), nil
		}
		encoding := ""
		if len(params) > 1 {
			encoding = params[1].Get("encoding").String()
		}
		return contextValue(encodeAccount(a, encoding)), nil

	case "getMinimumBalanceForRentExemption":
		return s.RentExemption, nil

	case "getLatestBlockhash":
		return contextValue(map[string]any{
			"blockhash":            randomHash().String(),
			"lastValidBlockHeight": 1000,
		}), nil

	case "requestAirdrop":
		if s.AirdropFails {
			return nil, &rpcError{Code: -32600, Message: "airdrop request failed"}
		}
		key, err := pubkeyParam(params)
		if err != nil {
			return nil, err
		}
		if len(params) < 2 {
			return nil, &rpcError{Code: -32602, Message: "missing lamports"}
		}
		s.account(key).Lamports += params[1].Uint()
		var sig solana.Signature
		copy(sig[:], randomBytes(64))
		s.statuses[sig] = nil
		return sig.String(), nil

	case "sendTransaction":
		if s.PreflightFails {
			return nil, &rpcError{Code: -32002, Message: "Transaction simulation failed: Blockhash not found"}
		}
		if len(params) == 0 {
			return nil, &rpcError{Code: -32602, Message: "missing transaction"}
		}
		tx, decodeErr := solana.TransactionFromBase64(params[0].String())
		if decodeErr != nil {
			return nil, &rpcError{Code: -32602, Message: decodeErr.Error()}
		}
		if len(tx.Signatures) == 0 {
			return nil, &rpcError{Code: -32602, Message: "transaction is not signed"}
		}
		if verifyErr := tx.VerifySignatures(); verifyErr != nil {
			return nil, &rpcError{Code: -32003, Message: verifyErr.Error()}
		}

		sig := tx.Signatures[0]
		s.transactions = append(s.transactions, tx)
		s.bySignature[sig] = tx

		var txErr any
		if s.OnTransaction != nil {
			txErr = s.OnTransaction(tx)
		}
		s.statuses[sig] = txErr
		if s.Logs != nil {
			s.logs[sig] = s.Logs(tx)
		}
		return sig.String(), nil

	case "getSignatureStatuses":
		if len(params) == 0 {
			return nil, &rpcError{Code: -32602, Message: "missing signatures"}
		}
		var values []any
		for _, raw := range params[0].Array() {
			sig, err := solana.SignatureFromBase58(raw.String())
			if err != nil {
				return nil, &rpcError{Code: -32602, Message: err.Error()}
			}
			txErr, ok := s.statuses[sig]
			if !ok {
				values = append(values, nil)
				continue
			}
			values = append(values, map[string]any{
				"slot":               1,
				"confirmations":      nil,
				"err":                txErr,
				"confirmationStatus": "confirmed",
			})
		}
		return contextValue(values), nil

	case "getTransaction":
		if len(params) == 0 {
			return nil, &rpcError{Code: -32602, Message: "missing signature"}
		}
		sig, err := solana.SignatureFromBase58(params[0].String())
		if err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		tx, ok := s.bySignature[sig]
		if !ok {
			return nil, nil
		}
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, &rpcError{Code: -32603, Message: err.Error()}
		}
		logs := s.logs[sig]
		if logs == nil {
			logs = []string{}
		}
		return map[string]any{
			"slot":        1,
			"blockTime":   nil,
			"transaction": []string{base64.StdEncoding.EncodeToString(raw), "base64"},
			"meta": map[string]any{
				"err":          s.statuses[sig],
				"fee":          5000,
				"preBalances":  []uint64{},
				"postBalances": []uint64{},
				"logMessages":  logs,
				"status":       map[string]any{"Ok": nil},
			},
		}, nil

	default:
		return nil, &rpcError{Code: -32601, Message: fmt.Sprintf("method %s not found", method)}
	}
}

func pubkeyParam(params []gjson.Result) (solana.PublicKey, *rpcError) {
	if len(params) == 0 {
		return solana.PublicKey{}, &rpcError{Code: -32602, Message: "missing public key"}
	}
	key, err := solana.PublicKeyFromBase58(params[0].String())
	if err != nil {
		return solana.PublicKey{}, &rpcError{Code: -32602, Message: err.Error()}
	}
	return key, nil
}

func encodeAccount(a *Account, encoding string) map[string]any {
	value := map[string]any{
		"lamports":   a.Lamports,
		"owner":      a.Owner.String(),
		"executable": a.Executable,
		"rentEpoch":  0,
		"space":      len(a.Data),
	}

	if encoding == "jsonParsed" && a.TokenAmount != nil {
		value["data"] = map[string]any{
			"program": "spl-token",
			"space":   165,
			"parsed": map[string]any{
				"type": "account",
				"info": map[string]any{
					"tokenAmount": map[string]any{
						"amount":         strconv.FormatUint(*a.TokenAmount, 10),
						"decimals":       9,
						"uiAmountString": strconv.FormatUint(*a.TokenAmount, 10),
					},
				},
			},
		}
		return value
	}

	value["data"] = []string{base64.StdEncoding.EncodeToString(a.Data), "base64"}
	return value
}

func randomHash() solana.Hash {
	var h solana.Hash
	copy(h[:], randomBytes(32))
	return h
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
