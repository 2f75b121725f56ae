package repository

import (
	"regexp"
	"strings"

	"keepnotes/model"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildNoteFilter translates a listing request into a Mongo filter. The owner
// constraint is always present.
func BuildNoteFilter(q model.NoteQuery) (bson.M, error) {
	if q.OwnerID == "" {
		return nil, ErrMissingOwner
	}

	filter := bson.M{"user_id": q.OwnerID}

	if tag := strings.ToLower(strings.TrimSpace(q.Tag)); tag != "" {
		filter["tags"] = tag
	}
	if q.FavoriteOnly {
		filter["is_favorite"] = true
	}
	if q.PinnedOnly {
		filter["is_pinned"] = true
	}
	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"content": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter, nil
}

// BuildNoteSort returns the sort document for mode. Pinned notes lead only
// for the creation-time orders.
func BuildNoteSort(mode model.SortMode) bson.D {
	mode = mode.Resolve()

	var primary bson.E
	switch mode {
	case model.SortOldest:
		primary = bson.E{Key: "created_at", Value: 1}
	case model.SortAlphabetical:
		primary = bson.E{Key: "title", Value: 1}
	case model.SortUpdated:
		primary = bson.E{Key: "updated_at", Value: -1}
	default:
		primary = bson.E{Key: "created_at", Value: -1}
	}

	if mode.PinnedFirst() {
		return bson.D{{Key: "is_pinned", Value: -1}, primary}
	}
	return bson.D{primary}
}
