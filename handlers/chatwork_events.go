package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"cwbridge/appctx"
	"cwbridge/core"
	"cwbridge/models"
	"cwbridge/usecases"
	"cwbridge/utils"
)

const maxWebhookBodyBytes = 1 << 20

// ErrorReporter receives failures that end a request with 500
type ErrorReporter interface {
	ReportError(err error, source string)
}

type ChatworkEventsHandler struct {
	mentionUseCase   usecases.MentionUseCaseInterface
	mentionEventType string
	prefixMode       utils.PrefixMode
	prefixOffset     int
	errorReporter    ErrorReporter
}

func NewChatworkEventsHandler(
	mentionUseCase usecases.MentionUseCaseInterface,
	mentionEventType string,
	prefixMode utils.PrefixMode,
	prefixOffset int,
	errorReporter ErrorReporter,
) *ChatworkEventsHandler {
	if mentionEventType == "" {
		mentionEventType = models.EventTypeMentionToMe
	}
	return &ChatworkEventsHandler{
		mentionUseCase:   mentionUseCase,
		mentionEventType: mentionEventType,
		prefixMode:       prefixMode,
		prefixOffset:     prefixOffset,
		errorReporter:    errorReporter,
	}
}

type webhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

var (
	successResponse       = webhookResponse{Status: "success"}
	ignoredResponse       = webhookResponse{Status: "ignored", Message: "Event type not handled"}
	invalidPayloadResponse = webhookResponse{Status: "error", Message: "Invalid payload format"}
	internalErrorResponse = webhookResponse{Status: "error", Message: "Internal server error"}
)

func (h *ChatworkEventsHandler) HandleChatworkEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := appctx.GetRequestID(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			h.failInternal(w, fmt.Errorf("panic while handling Chatwork event: %v", rec), requestID)
		}
	}()

	log.Printf("📨 [%s] Chatwork event received from %s", requestID, r.RemoteAddr)

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Printf("❌ [%s] Failed to read request body: %v", requestID, err)
		writeJSONResponse(w, http.StatusBadRequest, invalidPayloadResponse)
		return
	}
	log.Printf("📋 [%s] Received data: %s", requestID, string(bodyBytes))

	var payload models.ChatworkWebhookPayload
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		log.Printf("❌ [%s] Failed to parse JSON body: %v", requestID, err)
		writeJSONResponse(w, http.StatusBadRequest, invalidPayloadResponse)
		return
	}

	if err := payload.Validate(); err != nil {
		h.failValidation(w, err, requestID)
		return
	}

	eventType := payload.EventType()
	message := utils.ExtractMessage(*payload.WebhookEvent.Body, h.prefixMode, h.prefixOffset)
	log.Printf("📋 [%s] Event type: %s, extracted message: %q", requestID, eventType, message)

	if eventType != h.mentionEventType {
		log.Printf("📋 [%s] Ignoring unhandled event type: %s", requestID, eventType)
		writeJSONResponse(w, http.StatusOK, ignoredResponse)
		return
	}

	mentionEvent, err := payload.ToMentionEvent(message)
	if err != nil {
		h.failValidation(w, err, requestID)
		return
	}

	outcome, err := h.mentionUseCase.ProcessMention(ctx, mentionEvent)
	if err != nil {
		h.failInternal(w, fmt.Errorf("failed to process mention: %w", err), requestID)
		return
	}

	log.Printf("✅ [%s] Mention processed (degraded: %t)", requestID, outcome.Degraded())
	writeJSONResponse(w, http.StatusOK, successResponse)
}

// failValidation answers 400 for payload errors; any other failure is internal
func (h *ChatworkEventsHandler) failValidation(w http.ResponseWriter, err error, requestID string) {
	if !core.IsInvalidPayloadError(err) {
		h.failInternal(w, fmt.Errorf("failed to validate payload: %w", err), requestID)
		return
	}
	log.Printf("❌ [%s] Invalid webhook payload: %v", requestID, err)
	writeJSONResponse(w, http.StatusBadRequest, invalidPayloadResponse)
}

func (h *ChatworkEventsHandler) failInternal(w http.ResponseWriter, err error, requestID string) {
	log.Printf("❌ [%s] %v", requestID, err)
	if h.errorReporter != nil {
		h.errorReporter.ReportError(err, "POST /chatwork")
	}
	writeJSONResponse(w, http.StatusInternalServerError, internalErrorResponse)
}

func (h *ChatworkEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Chatwork webhook endpoints")

	router.HandleFunc("/chatwork", h.HandleChatworkEvent).Methods("POST")
	log.Printf("✅ POST /chatwork endpoint registered")
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}
