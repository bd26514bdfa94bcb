// Package widget implements the donation widget controller: session state,
// wallet connection lifecycle, donation intent validation, and the x402
// payment flow from amount selection to settled payment.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vorpalengineering/cryptocoffee-go/types"
	"github.com/vorpalengineering/cryptocoffee-go/utils"
	"github.com/vorpalengineering/cryptocoffee-go/wallet"
)

const (
	// errorDisplayWindow is how long a surfaced error stays visible.
	errorDisplayWindow = 5 * time.Second

	// successCloseDelay is how long the modal stays open after a
	// settled donation before auto-closing.
	successCloseDelay = 3 * time.Second

	// authorizationValidity is the signing window for an EIP-3009
	// authorization.
	authorizationValidity = time.Hour
)

// Controller owns one widget instance's state and drives the payment flow.
// Only one submission may be in flight at a time; Loading acts as the mutex
// and a second Submit returns ErrBusy.
type Controller struct {
	mu      sync.Mutex
	config  Config
	network types.NetworkConfig
	state   State

	provider   wallet.Provider
	httpClient *http.Client
	onEvent    EventCallback

	errorTimer *time.Timer
	closeTimer *time.Timer

	// now is stubbed in tests
	now func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = httpClient
	}
}

// WithEventCallback sets the event sink render layers subscribe to.
func WithEventCallback(callback EventCallback) Option {
	return func(c *Controller) {
		c.onEvent = callback
	}
}

// NewController validates the configuration and creates a widget controller.
// Construction fails immediately when a required field is missing or the
// network is unsupported.
func NewController(cfg Config, provider wallet.Provider, opts ...Option) (*Controller, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid widget config: %w", err)
	}

	network, err := types.GetNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		config:     cfg,
		network:    network,
		provider:   provider,
		httpClient: &http.Client{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Config returns the effective configuration after defaults.
func (c *Controller) Config() Config {
	return c.config
}

// State returns a snapshot of the current widget state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OpenModal opens the donation modal.
func (c *Controller) OpenModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ModalOpen = true
}

// CloseModal closes the donation modal and clears the donation intent.
// Closing is refused while a submission is in flight: there is no defined
// transition for abandoning an unresolved payment.
func (c *Controller) CloseModal() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return ErrModalBusy
	}
	c.state.ModalOpen = false
	c.clearIntentLocked()
	return nil
}

// SelectPreset selects a preset donation amount, clearing any custom amount.
func (c *Controller) SelectPreset(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedPreset = amount
	c.state.CustomAmount = 0
	return nil
}

// SetCustomAmount sets a custom donation amount from raw input, clearing any
// preset selection. Input that does not parse as a positive number leaves
// the prior selection unchanged.
func (c *Controller) SetCustomAmount(value string) error {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || amount <= 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CustomAmount = amount
	c.state.SelectedPreset = 0
	return nil
}

// SetMessage sets the donor message. Edits that would exceed
// MaxMessageLength are rejected outright; the stored message is never
// truncated.
func (c *Controller) SetMessage(text string) error {
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Message = text
	return nil
}

// MessageCount returns the accepted message length for the live counter.
func (c *Controller) MessageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return utf8.RuneCountInString(c.state.Message)
}

// Amount returns the currently selected donation amount, zero if none.
func (c *Controller) Amount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amountLocked()
}

func (c *Controller) amountLocked() float64 {
	if c.state.CustomAmount > 0 {
		return c.state.CustomAmount
	}
	return c.state.SelectedPreset
}

// Connect requests account access from the wallet provider. On success the
// user address and chain id are recorded and the session is connected; the
// address is not re-derived for the rest of the session.
func (c *Controller) Connect(ctx context.Context) error {
	if c.provider == nil {
		return wallet.ErrUnavailable
	}

	c.mu.Lock()
	if c.state.Connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return wallet.ErrNoAccounts
	}

	chainID, err := c.provider.ChainID(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.UserAddress = accounts[0]
	c.state.CurrentChainID = chainID
	c.state.Connected = true
	c.mu.Unlock()

	return nil
}

// EnsureNetwork switches the wallet to the configured chain if needed. When
// the wallet doesn't know the chain it is registered first and the switch is
// retried once; a second failure is fatal for this submission.
func (c *Controller) EnsureNetwork(ctx context.Context) error {
	c.mu.Lock()
	current := c.state.CurrentChainID
	c.mu.Unlock()

	if current == c.network.ChainID {
		return nil
	}

	err := c.provider.SwitchChain(ctx, c.network.ChainID)
	if errors.Is(err, wallet.ErrUnknownChain) {
		if addErr := c.provider.AddChain(ctx, c.network); addErr != nil {
			return fmt.Errorf("%w: %v", ErrNetworkSwitchFailed, addErr)
		}
		err = c.provider.SwitchChain(ctx, c.network.ChainID)
	}
	if err != nil {
		if errors.Is(err, wallet.ErrUserRejected) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNetworkSwitchFailed, err)
	}

	c.mu.Lock()
	c.state.CurrentChainID = c.network.ChainID
	c.mu.Unlock()

	return nil
}

// Submit runs the payment flow end-to-end exactly once: connect, challenge,
// sign, resubmit, settle. It is single-shot: failures surface to the user
// and the next attempt starts from scratch with a fresh challenge.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return ErrBusy
	}

	// Validate the intent before any network or wallet activity.
	amount := c.amountLocked()
	if amount == 0 {
		c.mu.Unlock()
		return c.fail(ErrNoAmountSelected, "Please select a donation amount")
	}
	if amount < c.config.MinAmount || amount > c.config.MaxAmount {
		c.mu.Unlock()
		return c.fail(ErrAmountOutOfRange,
			fmt.Sprintf("Please enter an amount between $%v and $%v", c.config.MinAmount, c.config.MaxAmount))
	}

	c.state.Loading = true
	c.state.Error = ""
	c.state.Phase = PhaseIdle
	message := c.state.Message
	c.mu.Unlock()

	// Loading is cleared no matter which terminal state is reached.
	defer func() {
		c.mu.Lock()
		c.state.Loading = false
		c.mu.Unlock()
	}()

	err := c.run(ctx, amount, message)
	if err != nil {
		return c.fail(err, userMessage(err))
	}
	return nil
}

// run executes the submission phases. Any error aborts the flow.
func (c *Controller) run(ctx context.Context, amount float64, message string) error {
	// Idle -> Connecting, skipped when already connected
	if !c.State().Connected {
		c.setPhase(PhaseConnecting)
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}
	if err := c.EnsureNetwork(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(types.DonationRequest{Amount: amount, Message: message})
	if err != nil {
		return fmt.Errorf("failed to encode donation: %w", err)
	}

	// Connecting -> Challenging
	c.setPhase(PhaseChallenging)
	requirement, err := c.requestChallenge(ctx, body)
	if err != nil {
		return err
	}

	// Challenging -> Signing; may suspend awaiting wallet approval
	c.setPhase(PhaseSigning)
	paymentHeader, err := c.signPayment(ctx, requirement)
	if err != nil {
		return err
	}

	// Signing -> Settling: identical body, payment header attached
	c.setPhase(PhaseSettling)
	receipt, err := c.submitPayment(ctx, body, paymentHeader)
	if err != nil {
		return err
	}

	c.succeed(receipt)
	return nil
}

// requestChallenge posts the donation intent without payment and selects the
// acceptable requirement from the 402 challenge.
func (c *Controller) requestChallenge(ctx context.Context, body []byte) (*types.PaymentRequirements, error) {
	resp, err := c.post(ctx, body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("%w: got %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var challenge types.PaymentRequiredResponse
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		return nil, fmt.Errorf("failed to parse payment challenge: %w", err)
	}

	for i := range challenge.Accepts {
		req := &challenge.Accepts[i]
		if req.Scheme == "exact" && req.Network == c.network.Name {
			return req, nil
		}
	}
	return nil, ErrNoAcceptableOption
}

// signPayment builds the EIP-3009 authorization for the chosen requirement,
// has the wallet sign it, and encodes the X-PAYMENT header. The challenge is
// consumed exactly once; a retry starts over with a fresh one.
func (c *Controller) signPayment(ctx context.Context, requirement *types.PaymentRequirements) (string, error) {
	nonce, err := utils.GenerateNonce()
	if err != nil {
		return "", err
	}

	from := c.State().UserAddress
	auth := &types.ExactSchemeAuthorization{
		From:        from,
		To:          requirement.PayTo,
		Value:       requirement.MaxAmountRequired,
		ValidAfter:  "0",
		ValidBefore: strconv.FormatInt(c.now().Add(authorizationValidity).Unix(), 10),
		Nonce:       nonce,
	}

	typedData, err := utils.BuildTransferAuthorizationTypedData(auth, requirement, c.network.ChainID)
	if err != nil {
		return "", err
	}

	signature, err := c.provider.SignTypedData(ctx, from, typedData)
	if err != nil {
		return "", err
	}

	payload := &types.PaymentPayload{
		X402Version: 1,
		Scheme:      requirement.Scheme,
		Network:     requirement.Network,
		Payload: map[string]any{
			"signature":     signature,
			"authorization": auth,
		},
	}
	return utils.EncodePaymentHeader(payload)
}

// submitPayment resubmits the donation with the signed payment header.
func (c *Controller) submitPayment(ctx context.Context, body []byte, paymentHeader string) (*types.DonationReceipt, error) {
	resp, err := c.post(ctx, body, paymentHeader)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the server's reason when it sent one.
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		reason := ""
		if json.Unmarshal(respBody, &errResp) == nil {
			if errResp.Error != "" {
				reason = errResp.Error
			} else if errResp.Message != "" {
				reason = errResp.Message
			}
		}
		if reason == "" {
			reason = fmt.Sprintf("Payment failed (%d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentRejected, reason)
	}

	var receipt types.DonationReceipt
	if err := json.Unmarshal(respBody, &receipt); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	return &receipt, nil
}

func (c *Controller) post(ctx context.Context, body []byte, paymentHeader string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if paymentHeader != "" {
		req.Header.Set("X-PAYMENT", paymentHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.state.Phase = phase
	c.mu.Unlock()
	c.emit(Event{Type: EventPhaseChange, Phase: phase, Timestamp: c.now()})
}

// succeed records the settled donation, surfaces the configured thank-you
// message, resets the intent, and auto-closes the modal after a fixed delay.
func (c *Controller) succeed(receipt *types.DonationReceipt) {
	c.mu.Lock()
	c.state.Phase = PhaseSuccess
	amount := c.amountLocked()
	c.clearIntentLocked()
	if c.closeTimer != nil {
		c.closeTimer.Stop()
	}
	c.closeTimer = time.AfterFunc(successCloseDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.state.Loading {
			c.state.ModalOpen = false
		}
	})
	c.mu.Unlock()

	c.emit(Event{Type: EventPhaseChange, Phase: PhaseSuccess, Timestamp: c.now()})
	c.emit(Event{
		Type:      EventSuccess,
		Phase:     PhaseSuccess,
		Message:   c.config.SuccessMessage,
		Amount:    amount,
		Timestamp: c.now(),
	})
}

// fail surfaces an error and schedules its auto-clear. The machine stays in
// Failed until the user triggers Submit again; no backoff or retry counter.
func (c *Controller) fail(err error, message string) error {
	c.mu.Lock()
	c.state.Phase = PhaseFailed
	c.state.Error = message
	if c.errorTimer != nil {
		c.errorTimer.Stop()
	}
	c.errorTimer = time.AfterFunc(errorDisplayWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.Error == message {
			c.state.Error = ""
		}
	})
	c.mu.Unlock()

	c.emit(Event{Type: EventError, Phase: PhaseFailed, Message: message, Err: err, Timestamp: c.now()})
	return err
}

func (c *Controller) clearIntentLocked() {
	c.state.SelectedPreset = 0
	c.state.CustomAmount = 0
	c.state.Message = ""
}

func (c *Controller) emit(event Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}

// userMessage maps flow errors to the message surfaced in the widget.
// Wallet rejections are shown verbatim; they are user decisions, not faults.
func userMessage(err error) string {
	switch {
	case errors.Is(err, wallet.ErrUserRejected):
		return "Request rejected in wallet"
	case errors.Is(err, wallet.ErrUnavailable):
		return "No Web3 wallet detected. Please install MetaMask or Coinbase Wallet."
	case errors.Is(err, ErrNetworkSwitchFailed):
		return "Failed to switch to the payment network"
	case errors.Is(err, ErrNoAcceptableOption):
		return "No payment options available"
	case errors.Is(err, ErrUnexpectedStatus):
		return "Failed to process donation"
	case errors.Is(err, ErrPaymentRejected):
		msg := err.Error()
		if idx := len(ErrPaymentRejected.Error()) + 2; idx < len(msg) {
			return msg[idx:]
		}
		return "Payment failed"
	}
	return "Failed to process donation"
}
