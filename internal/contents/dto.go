package contents

import "time"

// ListItemResponse is the compact list representation of a content record.
type ListItemResponse struct {
	ContentID string    `json:"contentId"`
	Title     string    `json:"title"`
	Type      Type      `json:"type"`
	Origin    Origin    `json:"origin"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toListItem(content Content) ListItemResponse {
	return ListItemResponse{
		ContentID: content.ID,
		Title:     content.Title,
		Type:      content.Type,
		Origin:    content.Origin,
		Status:    content.Processing.Status,
		Progress:  content.Processing.Progress,
		Tags:      content.Tags,
		CreatedAt: content.CreatedAt,
	}
}

// CreatedResponse acknowledges a new record and its processing submission.
type CreatedResponse struct {
	ContentID string `json:"contentId"`
	Status    Status `json:"status"`
}

func toCreated(content Content) CreatedResponse {
	return CreatedResponse{
		ContentID: content.ID,
		Status:    content.Processing.Status,
	}
}
