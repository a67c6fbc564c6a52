package storage

import (
	"fmt"

	"github.com/Epistemic-Technology/docparse/models"
)

// CalculateResourcePaths lists the doc:// resource URIs available for a
// stored document.
func CalculateResourcePaths(docID string, doc *models.DocumentResult) []string {
	resourcePaths := []string{
		fmt.Sprintf("doc://%s", docID),
		fmt.Sprintf("doc://%s/pages", docID),
	}

	if n := len(doc.Pages); n > 0 {
		resourcePaths = append(resourcePaths, fmt.Sprintf("doc://%s/pages/1", docID))
		if n > 1 {
			resourcePaths = append(resourcePaths, fmt.Sprintf("doc://%s/pages/%d", docID, n))
		}
	}
	resourcePaths = append(resourcePaths, fmt.Sprintf("doc://%s/pages/{pageNumber}", docID))

	if len(doc.AllHeadings()) > 0 {
		resourcePaths = append(resourcePaths, fmt.Sprintf("doc://%s/headings", docID))
	}
	if len(doc.AllTables()) > 0 {
		resourcePaths = append(resourcePaths, fmt.Sprintf("doc://%s/tables", docID))
	}

	return resourcePaths
}
