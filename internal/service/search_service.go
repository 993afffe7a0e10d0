package service

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/hobbyhub/backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const (
	hobbyIndex = "hobbies"
	postIndex  = "posts"
)

// SearchService maintains the Meilisearch discovery indexes and serves the
// discover-page queries. Indexing is best effort; the relational store stays
// the source of truth.
type SearchService interface {
	IndexHobby(hobby *model.Hobby) error
	IndexPost(post *model.Post) error
	DeleteHobby(id string) error
	DeletePost(id string) error
	SearchHobbyIDs(query string, limit int64) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortable := []string{"created_at"}
	if _, err := s.client.Index(hobbyIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update %s sortable attributes: %v", hobbyIndex, err)
	}

	postFilterable := []string{"community_id"}
	filterableInterface := make([]any, len(postFilterable))
	for i, v := range postFilterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(postIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update %s filterable attributes: %v", postIndex, err)
	}
	if _, err := s.client.Index(postIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update %s sortable attributes: %v", postIndex, err)
	}
}

type meiliHobbyDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Emoji       string   `json:"emoji"`
	CreatedAt   int64    `json:"created_at"`
}

type meiliPostDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	CommunityID string   `json:"community_id"`
	CreatedAt   int64    `json:"created_at"`
}

func (s *meiliSearchService) IndexHobby(hobby *model.Hobby) error {
	doc := meiliHobbyDoc{
		ID:          hobby.ID.String(),
		Name:        hobby.Name,
		Description: stringOrEmpty(hobby.Description),
		Tags:        hobby.Tags,
		Emoji:       stringOrEmpty(hobby.Emoji),
		CreatedAt:   hobby.CreatedAt.Unix(),
	}

	_, err := s.client.Index(hobbyIndex).AddDocuments([]meiliHobbyDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) IndexPost(post *model.Post) error {
	doc := meiliPostDoc{
		ID:          post.ID.String(),
		Title:       post.Title,
		Content:     post.Content,
		Tags:        post.Tags,
		CommunityID: post.CommunityID.String(),
		CreatedAt:   post.CreatedAt.Unix(),
	}

	_, err := s.client.Index(postIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeleteHobby(id string) error {
	_, err := s.client.Index(hobbyIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) DeletePost(id string) error {
	_, err := s.client.Index(postIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchHobbyIDs(query string, limit int64) ([]uuid.UUID, error) {
	resp, err := s.client.Index(hobbyIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if id, err := uuid.Parse(doc.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
