package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/docparse/models"
)

// GetData retrieves document data from a remote source and detects its
// type.
func GetData(ctx context.Context, sourceInfo models.SourceInfo) (models.DocumentData, error) {
	var data []byte
	var err error

	switch {
	case sourceInfo.ZoteroID != "":
		data, err = GetFromZotero(ctx, sourceInfo.ZoteroID, os.Getenv("ZOTERO_API_KEY"), os.Getenv("ZOTERO_LIBRARY_ID"))
	case sourceInfo.URL != "":
		data, err = GetFromURL(ctx, sourceInfo.URL)
	default:
		return models.DocumentData{}, errors.New("no data provided")
	}
	if err != nil {
		return models.DocumentData{}, err
	}
	if data == nil {
		return models.DocumentData{}, errors.New("no data retrieved")
	}

	return models.DocumentData{
		Data: data,
		Type: DetectDocumentType(data),
	}, nil
}

// GetFromURL fetches document data from a URL
func GetFromURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GetFromZotero fetches an attachment file from a Zotero library
func GetFromZotero(ctx context.Context, zoteroID string, apiKey string, libraryID string) ([]byte, error) {
	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))
	data, err := client.File(ctx, zoteroID)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ZoteroAttachmentName returns the stored file name of a Zotero attachment,
// falling back to the item title. It returns "" for non-attachments.
func ZoteroAttachmentName(ctx context.Context, zoteroID string, apiKey string, libraryID string) (string, error) {
	if zoteroID == "" || apiKey == "" || libraryID == "" {
		return "", fmt.Errorf("zoteroID, apiKey, and libraryID are required")
	}

	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))
	item, err := client.Item(ctx, zoteroID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch Zotero item %s: %w", zoteroID, err)
	}
	if item.Data.ItemType != "attachment" {
		return "", nil
	}
	if item.Data.Filename != "" {
		return item.Data.Filename, nil
	}
	return item.Data.Title, nil
}
