// internal/services/query.go
package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
)

const (
	exhibitOrder  = "exhibits.created_at DESC, exhibits.id DESC"
	photoOrder    = "is_primary DESC, uploaded_at ASC, id ASC"
	documentOrder = "upload_date DESC, id DESC"
)

var (
	publicSearchColumns   = []string{"title", "description", "tags", "inventory_number", "author"}
	extendedSearchColumns = append(append([]string{}, publicSearchColumns...), "historical_context", "material")
	adminSearchColumns    = []string{"title", "description", "inventory_number", "catalog_number", "tags", "author"}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereContains adds a case-insensitive substring match of term against any
// of columns. LIKE wildcards inside term match literally.
func whereContains(query *gorm.DB, term string, columns []string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		conditions[i] = "LOWER(exhibits." + column + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}

	return query.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

func publishedExhibits(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Exhibit{}).Where("exhibits.status = ?", models.ExhibitStatusPublished)
}
