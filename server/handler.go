package server

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vorpalengineering/cryptocoffee-go/notify"
	"github.com/vorpalengineering/cryptocoffee-go/types"
	"github.com/vorpalengineering/cryptocoffee-go/utils"
)

const x402Version = 1

// handleDonate implements the two-phase donation contract. Without an
// X-PAYMENT header it issues a pure 402 challenge priced from the request
// amount; with one it verifies and settles through the facilitator.
// Input validation runs before any facilitator call, so a donation is never
// settled on-chain and then rejected.
func (s *Server) handleDonate(ctx *gin.Context) {
	var req types.DonationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if errs := s.validateDonation(&req); len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:  "Validation failed",
			Errors: errs,
		})
		return
	}

	requirement, err := s.requirementFor(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	paymentHeader := ctx.GetHeader("X-Payment")
	if paymentHeader == "" {
		// Challenge issuance is pure: nothing is persisted, and the same
		// amount always yields the same requirement.
		s.sendPaymentRequired(ctx, requirement, "X-PAYMENT header is required")
		return
	}

	payload, err := utils.DecodePaymentHeader(paymentHeader)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "InvalidPaymentHeader",
		})
		return
	}

	verifyResp, err := s.facilitator.Verify(ctx.Request.Context(), &types.VerifyRequest{
		X402Version:         x402Version,
		PaymentPayload:      *payload,
		PaymentRequirements: *requirement,
	})
	if err != nil {
		s.sendInternalError(ctx, http.StatusBadGateway, "Failed to verify payment", err)
		return
	}
	if !verifyResp.IsValid {
		s.sendPaymentRequired(ctx, requirement, verifyResp.InvalidReason)
		return
	}

	// Settle only after verify succeeds: settlement consumes the same
	// authorization nonce verify validated.
	settleResp, err := s.facilitator.Settle(ctx.Request.Context(), &types.SettleRequest{
		X402Version:         x402Version,
		PaymentPayload:      *payload,
		PaymentRequirements: *requirement,
	})
	if err != nil {
		s.sendInternalError(ctx, http.StatusBadGateway, "Failed to settle payment", err)
		return
	}
	if !settleResp.Success {
		s.sendPaymentRequired(ctx, requirement, settleResp.ErrorReason)
		return
	}

	donationID := uuid.NewString()
	log.Printf("Donation settled: id=%s amount=$%v tx=%s payer=%s",
		donationID, req.Amount, settleResp.Transaction, settleResp.Payer)

	// Fire-and-forget: notification must never affect the response.
	go s.notifyDonation(donationID, &req, settleResp)

	ctx.JSON(http.StatusOK, types.DonationReceipt{
		Success:    true,
		Message:    s.config.Donation.SuccessMessage,
		Amount:     req.Amount,
		DonationID: donationID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// validateDonation checks the donation intent against configured bounds.
func (s *Server) validateDonation(req *types.DonationRequest) []string {
	var errs []string
	if req.Amount < s.config.Donation.MinAmount || req.Amount > s.config.Donation.MaxAmount {
		errs = append(errs, fmt.Sprintf("Amount must be between $%v and $%v",
			s.config.Donation.MinAmount, s.config.Donation.MaxAmount))
	}
	if len([]rune(req.Message)) > maxMessageLength {
		errs = append(errs, fmt.Sprintf("Message must be %d characters or less", maxMessageLength))
	}
	return errs
}

const maxMessageLength = 500

// requirementFor builds the payment requirement for a donation amount. The
// atomic amount is a pure function of the amount and the asset's precision.
func (s *Server) requirementFor(amount float64) (*types.PaymentRequirements, error) {
	atomic, err := utils.AtomicAmount(amount, s.network.USDCDecimals)
	if err != nil {
		return nil, err
	}

	description := s.config.Donation.Description
	if description == "" {
		description = fmt.Sprintf("Donation of $%.2f - Thank you for your support!", amount)
	}

	return &types.PaymentRequirements{
		Scheme:            "exact",
		Network:           s.network.Name,
		MaxAmountRequired: atomic,
		Resource:          "/donate",
		Description:       description,
		MimeType:          "application/json",
		PayTo:             s.config.Donation.WalletAddress,
		MaxTimeoutSeconds: s.config.Donation.MaxTimeoutSeconds,
		Asset:             s.network.USDCAddress,
		Extra: map[string]any{
			"name":    s.network.EIP712Name,
			"version": s.network.EIP712Version,
		},
	}, nil
}

func (s *Server) sendPaymentRequired(ctx *gin.Context, requirement *types.PaymentRequirements, reason string) {
	ctx.JSON(http.StatusPaymentRequired, types.PaymentRequiredResponse{
		X402Version: x402Version,
		Accepts:     []types.PaymentRequirements{*requirement},
		Error:       reason,
	})
}

// sendInternalError logs the cause and, in production, substitutes a
// generic message so internals never reach end users.
func (s *Server) sendInternalError(ctx *gin.Context, status int, message string, err error) {
	log.Printf("%s: %v", message, err)
	if s.config.Production {
		ctx.JSON(status, types.ErrorResponse{
			Error: "An error occurred. Please try again later.",
		})
		return
	}
	ctx.JSON(status, types.ErrorResponse{
		Error: fmt.Sprintf("%s: %v", message, err),
	})
}

func (s *Server) notifyDonation(donationID string, req *types.DonationRequest, settle *types.SettleResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	note := notify.DonationNote{
		DonationID:  donationID,
		Amount:      req.Amount,
		Message:     html.EscapeString(req.Message),
		Network:     s.network.Name,
		Transaction: settle.Transaction,
		Payer:       settle.Payer,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.notifier.Donation(ctx, note); err != nil {
		log.Printf("Failed to send donation notification: %v", err)
	}
}
