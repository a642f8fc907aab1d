package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/world"
)

// ObjectRepo reads the world_objects table, which the game server keeps
// current with everything standing in the world.
type ObjectRepo struct {
	db *DB
}

func NewObjectRepo(db *DB) *ObjectRepo {
	return &ObjectRepo{db: db}
}

const loadObjectsSQL = `SELECT id, kind, name, x, y, map_id, dst_x, dst_y, dst_map_id, hidden
	FROM world_objects ORDER BY id`

// LoadAll returns every object row. Rows with an unknown kind are skipped
// and logged.
func (r *ObjectRepo) LoadAll(ctx context.Context) ([]world.Object, error) {
	rows, err := r.db.Pool.Query(ctx, loadObjectsSQL)
	if err != nil {
		return nil, fmt.Errorf("query world objects: %w", err)
	}
	defer rows.Close()

	var out []world.Object
	for rows.Next() {
		var (
			o    world.Object
			kind string
		)
		if err := rows.Scan(&o.ID, &kind, &o.Name, &o.X, &o.Y, &o.MapID,
			&o.DstX, &o.DstY, &o.DstMapID, &o.Hidden); err != nil {
			return nil, fmt.Errorf("scan world object: %w", err)
		}
		k, err := world.ParseKind(kind)
		if err != nil {
			r.db.log.Warn("skipping world object", zap.Int32("id", o.ID), zap.Error(err))
			continue
		}
		o.Kind = k
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate world objects: %w", err)
	}
	return out, nil
}
