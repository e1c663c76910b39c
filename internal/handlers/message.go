package handlers

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/database"
	"github.com/mission365/classified-marketplace/internal/models"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/logger"
	"github.com/mission365/classified-marketplace/pkg/utils"
	"gorm.io/gorm"
)

const defaultThreadPerPage = 50

// -- Inputs --

type SendMessageInput struct {
	ReceiverID  string  `json:"receiver_id"`
	ProductID   *string `json:"product_id"`
	MessageText string  `json:"message_text"`
}

// Conversation summarizes all messages exchanged with one counterparty
type Conversation struct {
	Contact         models.User    `json:"contact"`
	LatestMessage   models.Message `json:"latest_message"`
	UnreadCount     int64          `json:"unread_count"`
	LastMessageTime time.Time      `json:"last_message_time"`
}

// ListConversations handles GET /messages: one entry per counterparty the
// caller has exchanged messages with, newest conversation first.
//
// A single grouped join resolves the counterparty, the unread inbound count
// and the id of the latest message per pair; profiles and latest-message
// payloads then load in two batched lookups, so the cost stays flat no
// matter how many conversations the caller has.
func ListConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	query := `
		WITH conv AS (
			SELECT
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS contact_id,
				MAX(created_at) AS last_message_time,
				COUNT(CASE WHEN receiver_id = ? AND is_read = ? THEN 1 END) AS unread_count
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY contact_id
		)
		SELECT conv.contact_id, conv.unread_count, m.id AS latest_message_id
		FROM conv
		JOIN messages m
			ON ((m.sender_id = ? AND m.receiver_id = conv.contact_id)
				OR (m.sender_id = conv.contact_id AND m.receiver_id = ?))
			AND m.created_at = conv.last_message_time
		ORDER BY conv.last_message_time DESC, m.id DESC
	`

	type convRow struct {
		ContactID       string
		UnreadCount     int64
		LatestMessageID string
	}

	var rows []convRow
	err := database.DB.Raw(query, userID, userID, false, userID, userID, userID, userID).Scan(&rows).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch conversations")
		respondError(c, errors.Internal("Failed to fetch conversations"))
		return
	}

	// Timestamp ties on a pair yield one row per tied message; the scan keeps
	// the first (highest message id) per counterparty.
	ordered := make([]convRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	contactIDs := make([]string, 0, len(rows))
	messageIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		if seen[r.ContactID] {
			continue
		}
		seen[r.ContactID] = true
		ordered = append(ordered, r)
		contactIDs = append(contactIDs, r.ContactID)
		messageIDs = append(messageIDs, r.LatestMessageID)
	}

	contacts := make(map[string]models.User, len(contactIDs))
	if len(contactIDs) > 0 {
		var users []models.User
		if err := database.DB.Where("id IN ?", contactIDs).Find(&users).Error; err != nil {
			respondError(c, errors.Internal("Failed to fetch conversations"))
			return
		}
		for _, u := range users {
			contacts[u.ID] = u
		}
	}

	latest := make(map[string]models.Message, len(messageIDs))
	if len(messageIDs) > 0 {
		var messages []models.Message
		err := database.DB.Preload("Sender").Preload("Receiver").Preload("Product").
			Where("id IN ?", messageIDs).Find(&messages).Error
		if err != nil {
			respondError(c, errors.Internal("Failed to fetch conversations"))
			return
		}
		for _, m := range messages {
			latest[m.ID] = m
		}
	}

	conversations := make([]Conversation, 0, len(ordered))
	for _, r := range ordered {
		msg := latest[r.LatestMessageID]
		conversations = append(conversations, Conversation{
			Contact:         contacts[r.ContactID],
			LatestMessage:   msg,
			UnreadCount:     r.UnreadCount,
			LastMessageTime: msg.CreatedAt,
		})
	}

	respondOK(c, conversations)
}

// GetConversation handles GET /messages/conversation/:userId: the full
// thread with one counterparty, oldest first, paginated.
//
// Reading the thread acknowledges it: every unread message from the
// counterparty is marked read inside the same transaction as the page
// read, so no message can show as unread in one concurrent read while
// being marked read by another.
func GetConversation(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Param("userId")

	var contact models.User
	if err := database.DB.First(&contact, "id = ?", otherUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("User not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	page, perPage := 1, defaultThreadPerPage
	if n, err := utils.ParsePositiveInt(c.Query("page")); err == nil {
		page = n
	}
	if n, err := utils.ParsePositiveInt(c.Query("per_page")); err == nil {
		perPage = n
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var messages []models.Message
	var total int64

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		pair := tx.Model(&models.Message{}).Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			currentUserID, otherUserID, otherUserID, currentUserID,
		)
		if err := pair.Count(&total).Error; err != nil {
			return err
		}

		err := tx.Preload("Sender").Preload("Receiver").Preload("Product").
			Where(
				"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				currentUserID, otherUserID, otherUserID, currentUserID,
			).
			Order("created_at asc").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&messages).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherUserID, currentUserID, false).
			Update("is_read", true).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", currentUserID).Msg("Failed to fetch conversation")
		respondError(c, errors.Internal("Failed to fetch conversation"))
		return
	}

	respondOK(c, gin.H{
		"contact":  contact,
		"messages": newPage(messages, total, page, perPage),
	})
}

// SendMessage handles POST /messages
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("Invalid request body"))
		return
	}

	if input.ReceiverID == senderID {
		respondError(c, errors.NewAppError(http.StatusUnprocessableEntity, "Cannot send message to yourself"))
		return
	}

	verr := errors.NewValidationError()

	if input.ReceiverID == "" {
		verr.Add("receiver_id", "The receiver_id field is required")
	} else {
		var count int64
		database.DB.Model(&models.User{}).Where("id = ?", input.ReceiverID).Count(&count)
		if count == 0 {
			verr.Add("receiver_id", "The selected receiver does not exist")
		}
	}

	if input.ProductID != nil {
		var count int64
		database.DB.Model(&models.Product{}).Where("id = ?", *input.ProductID).Count(&count)
		if count == 0 {
			verr.Add("product_id", "The selected product does not exist")
		}
	}

	if input.MessageText == "" {
		verr.Add("message_text", "The message_text field is required")
	} else if utf8.RuneCountInString(input.MessageText) > models.MaxMessageLength {
		verr.Add("message_text", "The message_text may not be greater than 1000 characters")
	}

	if verr.HasErrors() {
		respondValidation(c, verr.Fields)
		return
	}

	msg := models.Message{
		ID:          utils.GenerateID(),
		SenderID:    senderID,
		ReceiverID:  input.ReceiverID,
		ProductID:   input.ProductID,
		MessageText: input.MessageText,
		IsRead:      false,
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to send message")
		respondError(c, errors.Internal("Failed to send message"))
		return
	}

	database.DB.Preload("Sender").Preload("Receiver").Preload("Product").First(&msg, "id = ?", msg.ID)

	respondCreated(c, "Message sent successfully", msg)
}

// MarkMessageRead handles PUT /messages/:id/read. Only the receiver may
// mark a message read; re-marking an already-read message is a no-op.
func MarkMessageRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	var msg models.Message
	if err := database.DB.First(&msg, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, errors.NotFound("Message not found"))
		} else {
			respondError(c, errors.Internal("Database error"))
		}
		return
	}

	if msg.ReceiverID != userID {
		respondError(c, errors.Forbidden("Only the receiver can mark a message as read"))
		return
	}

	if !msg.IsRead {
		if err := database.DB.Model(&msg).Update("is_read", true).Error; err != nil {
			respondError(c, errors.Internal("Failed to mark message as read"))
			return
		}
	}

	respondMessage(c, "Message marked as read")
}

// UnreadCount handles GET /messages/unread-count
func UnreadCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		respondError(c, errors.Internal("Failed to fetch unread count"))
		return
	}

	respondOK(c, gin.H{"unread_count": count})
}
