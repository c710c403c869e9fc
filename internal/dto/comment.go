package dto

import (
	"time"

	"github.com/photoboard/photoboard/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64       `json:"id"`
	PhotoID   uint64       `json:"photo_id"`
	ParentID  *uint64      `json:"parent_id,omitempty"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	User      *UserDTO     `json:"user,omitempty"`
	Replies   []CommentDTO `json:"replies,omitempty"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		PhotoID:   comment.PhotoID,
		ParentID:  comment.ParentID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}

	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		dto.User = &user
	}

	if len(comment.Replies) > 0 {
		dto.Replies = make([]CommentDTO, len(comment.Replies))
		for i, reply := range comment.Replies {
			dto.Replies[i] = ToCommentDTO(reply)
		}
	}

	return dto
}

// ToCommentListDTO converts a slice of comments
func ToCommentListDTO(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}
