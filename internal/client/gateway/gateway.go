// Package gateway is the typed HTTP client for the banking API. Every
// outbound request passes through an interceptor pipeline that attaches the
// current bearer token at send time and turns a server-side 401 into a
// forced session invalidation before the caller sees the failure.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okapibank/okapi/internal/admin"
	"github.com/okapibank/okapi/internal/beneficiary"
	"github.com/okapibank/okapi/internal/client/session"
	"github.com/okapibank/okapi/internal/customer"
	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/transfer"
)

// ErrSessionEnded is returned by any call whose bearer token the server
// rejected. By the time a caller observes it, the credential store is
// cleared, the session is reset, and navigation to the login route has
// already happened.
var ErrSessionEnded = errors.New("session ended: credentials rejected by server")

// Error is a non-2xx response the server described in its message envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

const defaultTimeout = 15 * time.Second

// Client talks to the banking API on behalf of the session manager's
// current principal.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	logger   *slog.Logger
}

// New builds a gateway client. All requests share the session-aware
// transport, so token attachment and invalidation need no per-call wiring.
func New(baseURL string, sessions *session.Manager, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &authTransport{base: http.DefaultTransport, sessions: sessions},
		},
		sessions: sessions,
		logger:   logger,
	}
}

// authTransport is the interceptor pipeline around every request: it reads
// the session at send time, never from a captured copy, and it classifies a
// 401 by whether this request actually went out with a bearer token. Only a
// rejected token ends the session; an anonymous 401 (a failed login) passes
// through untouched.
type authTransport struct {
	base     http.RoundTripper
	sessions *session.Manager
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.sessions.Current().Token
	if tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && tok != "" {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		t.sessions.ForceInvalidate()
		return nil, ErrSessionEnded
	}
	return resp, nil
}

// do executes one API call. Non-2xx responses become *Error; a rejected
// bearer token surfaces as ErrSessionEnded after the transport has already
// completed the forced invalidation.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionEnded) {
			if c.logger != nil {
				c.logger.Warn("request rejected, session ended",
					slog.String("method", method), slog.String("path", path))
			}
			return ErrSessionEnded
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}

// Grant is the outcome of a successful login or registration.
type Grant struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginCustomer authenticates against the customer endpoint and, on
// success, persists the grant and swaps in the new session.
func (c *Client) LoginCustomer(ctx context.Context, username, password string) (Grant, error) {
	return c.login(ctx, "/api/auth/login/customer", username, password)
}

// LoginAdmin authenticates against the admin endpoint.
func (c *Client) LoginAdmin(ctx context.Context, username, password string) (Grant, error) {
	return c.login(ctx, "/api/auth/login/admin", username, password)
}

func (c *Client) login(ctx context.Context, path, username, password string) (Grant, error) {
	var grant Grant
	err := c.do(ctx, http.MethodPost, path, loginRequest{Username: username, Password: password}, &grant)
	if err != nil {
		return Grant{}, err
	}
	c.sessions.Login(grant.Token, grant.Role)
	return grant, nil
}

// Registration is the sign-up payload for a new customer.
type Registration struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	AccountType string `json:"accountType"`
}

// RegisterCustomer creates a customer account and logs the caller in with
// the returned grant.
func (c *Client) RegisterCustomer(ctx context.Context, reg Registration) (Grant, error) {
	var grant Grant
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/customer", reg, &grant); err != nil {
		return Grant{}, err
	}
	c.sessions.Login(grant.Token, grant.Role)
	return grant, nil
}

// ForgotPassword asks the server to issue a password-reset verification
// code for the account registered under email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": email}, nil)
}

// ResetPassword completes the password-reset flow with the issued code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":            email,
		"verificationCode": code,
		"newPassword":      newPassword,
	}, nil)
}

// Me fetches the authenticated principal's profile and attaches it to the
// session.
func (c *Client) Me(ctx context.Context) (*session.Profile, error) {
	var profile session.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	c.sessions.SetProfile(&profile)
	return &profile, nil
}

// Balance returns the caller's balances keyed by account number, as
// two-decimal strings.
func (c *Client) Balance(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Balances map[string]string `json:"balances"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/accounts/balance", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Balances, nil
}

// Beneficiaries lists the caller's saved beneficiaries.
func (c *Client) Beneficiaries(ctx context.Context) ([]beneficiary.Response, error) {
	var resp struct {
		Beneficiaries []beneficiary.Response `json:"beneficiaries"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/accounts/beneficiaries", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Beneficiaries, nil
}

// AddBeneficiary is the payload for saving a new beneficiary. The limit is
// an optional two-decimal string.
type AddBeneficiary struct {
	Name             string `json:"name"`
	BankName         string `json:"bankName"`
	AccountNumber    string `json:"accountNumber"`
	IFSCCode         string `json:"ifscCode"`
	MaxTransferLimit string `json:"maxTransferLimit"`
	Relationship     string `json:"relationship"`
}

// SaveBeneficiary registers a beneficiary for the caller.
func (c *Client) SaveBeneficiary(ctx context.Context, input AddBeneficiary) (beneficiary.Response, error) {
	var resp struct {
		Beneficiary beneficiary.Response `json:"beneficiary"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/accounts/beneficiaries", input, &resp); err != nil {
		return beneficiary.Response{}, err
	}
	return resp.Beneficiary, nil
}

// CustomerDetailsInput is the KYC payload a customer files or updates.
// AnnualIncome is an optional two-decimal string.
type CustomerDetailsInput struct {
	DateOfBirth  string `json:"dateOfBirth"`
	AadharNumber string `json:"aadharNumber"`
	PANNumber    string `json:"panNumber"`
	Occupation   string `json:"occupation"`
	AnnualIncome string `json:"annualIncome"`
}

// SaveCustomerDetails files or updates the caller's KYC record.
func (c *Client) SaveCustomerDetails(ctx context.Context, input CustomerDetailsInput) error {
	return c.do(ctx, http.MethodPost, "/api/customer-details/add", input, nil)
}

// CustomerDetails fetches the caller's KYC record merged with identity
// fields.
func (c *Client) CustomerDetails(ctx context.Context) (customer.Response, error) {
	var resp customer.Response
	err := c.do(ctx, http.MethodGet, "/api/customer-details", nil, &resp)
	return resp, err
}

// TransferResult is a completed transfer plus the resulting balance.
type TransferResult struct {
	Transaction transfer.TransactionResponse `json:"transaction"`
	NewBalance  string                       `json:"newBalance"`
}

// Transfer validates the request against the chosen beneficiary locally and
// then executes it. Validation failures never reach the wire.
func (c *Client) Transfer(ctx context.Context, ben beneficiary.Response, amount, description string) (TransferResult, error) {
	resolved, err := resolveBeneficiary(ben)
	if err != nil {
		return TransferResult{}, err
	}
	if _, err := transfer.Validate(transfer.Request{
		BeneficiaryID: ben.BeneficiaryID,
		Amount:        amount,
		Description:   description,
	}, resolved); err != nil {
		return TransferResult{}, err
	}

	var result TransferResult
	err = c.do(ctx, http.MethodPost, "/api/transfers/beneficiary", map[string]string{
		"beneficiaryId": ben.BeneficiaryID,
		"amount":        amount,
		"description":   description,
	}, &result)
	if err != nil {
		return TransferResult{}, err
	}
	return result, nil
}

// resolveBeneficiary rebuilds the domain view of a wire beneficiary so the
// shared transfer validator can run client-side.
func resolveBeneficiary(ben beneficiary.Response) (*beneficiary.Beneficiary, error) {
	if ben.BeneficiaryID == "" {
		return nil, nil
	}
	var limit int64
	if ben.MaxTransferLimit != "" {
		cents, err := money.Parse(ben.MaxTransferLimit)
		if err != nil {
			return nil, fmt.Errorf("beneficiary %s has malformed limit %q: %w", ben.BeneficiaryID, ben.MaxTransferLimit, err)
		}
		limit = cents
	}
	return &beneficiary.Beneficiary{
		ID:               ben.BeneficiaryID,
		Name:             ben.Name,
		AccountNumber:    ben.AccountNumber,
		MaxTransferLimit: limit,
	}, nil
}

// HistoryPage is one page of the caller's transactions.
type HistoryPage struct {
	Transactions []transfer.TransactionResponse `json:"transactions"`
	TotalItems   int                            `json:"totalItems"`
	TotalPages   int                            `json:"totalPages"`
}

// History returns a page of the caller's transfer history.
func (c *Client) History(ctx context.Context, page, size int) (HistoryPage, error) {
	var result HistoryPage
	err := c.do(ctx, http.MethodGet, "/api/transfers/history?"+pageQuery(page, size), nil, &result)
	return result, err
}

// AdminUsers lists customer users. Requires an admin session.
func (c *Client) AdminUsers(ctx context.Context, page, size int) (admin.Page[admin.UserRecord], error) {
	var result admin.Page[admin.UserRecord]
	err := c.do(ctx, http.MethodGet, "/api/admin/users?"+pageQuery(page, size), nil, &result)
	return result, err
}

// AdminUser fetches one user's detail record. Requires an admin session.
func (c *Client) AdminUser(ctx context.Context, id string) (admin.UserRecord, error) {
	var record admin.UserRecord
	err := c.do(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(id), nil, &record)
	return record, err
}

// AdminTransaction fetches one transaction's detail record. Requires an
// admin session.
func (c *Client) AdminTransaction(ctx context.Context, id string) (admin.TransactionRecord, error) {
	var record admin.TransactionRecord
	err := c.do(ctx, http.MethodGet, "/api/admin/transactions/"+url.PathEscape(id), nil, &record)
	return record, err
}

// AdminTransactions lists all transactions. Requires an admin session.
func (c *Client) AdminTransactions(ctx context.Context, page, size int) (admin.Page[admin.TransactionRecord], error) {
	var result admin.Page[admin.TransactionRecord]
	err := c.do(ctx, http.MethodGet, "/api/admin/transactions?"+pageQuery(page, size), nil, &result)
	return result, err
}

func pageQuery(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q.Encode()
}
