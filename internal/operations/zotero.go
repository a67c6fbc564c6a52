package operations

import (
	"context"
	"fmt"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/docparse/internal/logger"
)

// ZoteroSearchParams contains parameters for searching a Zotero library.
type ZoteroSearchParams struct {
	Query      string   // Quick search text (searches title, creator, year)
	Tags       []string // Filter by tags
	ItemTypes  []string // Filter by type (e.g., "book", "report")
	Collection string   // Filter by collection key (optional)
	Limit      int      // Max results (default 25)
}

// ZoteroAttachment is a stored file that the parser can read.
type ZoteroAttachment struct {
	Key         string `json:"key"` // pass as zotero_id to document-parse
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ParentKey   string `json:"parent_key"`
	ParentTitle string `json:"parent_title"`
}

// FindZoteroAttachments searches a library and returns the attachments of
// the matching items whose file names supports accepts.
func FindZoteroAttachments(ctx context.Context, apiKey, libraryID string, params ZoteroSearchParams, supports func(string) bool, log logger.Logger) ([]ZoteroAttachment, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Zotero API key is required")
	}
	if libraryID == "" {
		return nil, fmt.Errorf("Zotero library ID is required")
	}

	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))

	queryParams := &zotero.QueryParams{
		Q:        params.Query,
		QMode:    "titleCreatorYear",
		Tag:      params.Tags,
		ItemType: params.ItemTypes,
		Limit:    params.Limit,
		Sort:     "dateModified",
	}
	if queryParams.Limit == 0 {
		queryParams.Limit = 25
	}
	if len(queryParams.ItemType) == 0 {
		queryParams.ItemType = []string{"-attachment"}
	}

	var items []zotero.Item
	var err error
	if params.Collection != "" {
		items, err = client.CollectionItems(ctx, params.Collection, queryParams)
		if err != nil {
			log.Error("Failed to search collection %s: %v", params.Collection, err)
			return nil, fmt.Errorf("failed to search collection %s: %w", params.Collection, err)
		}
	} else {
		items, err = client.Items(ctx, queryParams)
		if err != nil {
			log.Error("Failed to search Zotero library: %v", err)
			return nil, fmt.Errorf("failed to search Zotero library: %w", err)
		}
	}

	log.Info("Found %d items in Zotero library", len(items))

	attachments := []ZoteroAttachment{}
	for _, item := range items {
		if item.Data.ItemType == "attachment" {
			continue
		}

		children, err := client.Children(ctx, item.Key, nil)
		if err != nil {
			log.Error("Failed to retrieve children for item %s: %v", item.Key, err)
			continue
		}

		for _, child := range children {
			if child.Data.ItemType != "attachment" || child.Data.Filename == "" {
				continue
			}
			if supports != nil && !supports(child.Data.Filename) {
				log.Debug("Skipping unsupported attachment %s", child.Data.Filename)
				continue
			}
			attachments = append(attachments, ZoteroAttachment{
				Key:         child.Key,
				Filename:    child.Data.Filename,
				ContentType: child.Data.ContentType,
				ParentKey:   item.Key,
				ParentTitle: item.Data.Title,
			})
		}
	}

	log.Info("Returning %d parseable attachments", len(attachments))
	return attachments, nil
}
