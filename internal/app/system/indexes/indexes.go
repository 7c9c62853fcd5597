// Package indexes creates and reconciles the MongoDB indexes of every
// coursehub collection at startup.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll runs every collection's index set. Each set is idempotent and
// all failures are reported together.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCourses(ctx, db); err != nil {
		problems = append(problems, "courses: "+err.Error())
	}
	if err := ensureEnrollments(ctx, db); err != nil {
		problems = append(problems, "enrollments: "+err.Error())
	}
	if err := ensureContactMessages(ctx, db); err != nil {
		problems = append(problems, "contact_messages: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconciling one collection                                                 */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// wantIndex is the desired shape of one index, pulled out of an IndexModel.
type wantIndex struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func newWantIndex(m mongo.IndexModel) wantIndex {
	w := wantIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			w.name = *m.Options.Name
		}
		w.unique = m.Options.Unique != nil && *m.Options.Unique
	}
	return w
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// IndexOptionsConflict: same keys already indexed under another name or
// with other options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

type reconciler struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// existing maps key signature to the index currently holding it.
func (rc reconciler) existing(ctx context.Context) (map[string]existingIndex, error) {
	cur, err := rc.coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			rc.log.Warn("failed to decode existing index", zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func (rc reconciler) create(ctx context.Context, w wantIndex) error {
	_, err := rc.coll.Indexes().CreateOne(ctx, w.model)
	if err == nil {
		return nil
	}
	if isDuplicateKeyErr(err) && w.unique {
		return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)%s",
			rc.coll.Name(), w.name, duplicateFinder(rc.coll.Name(), w.model.Keys.(bson.D)))
	}
	return fmt.Errorf("%s(%s): %w", rc.coll.Name(), w.name, err)
}

func (rc reconciler) replace(ctx context.Context, old existingIndex, w wantIndex) error {
	if _, err := rc.coll.Indexes().DropOne(ctx, old.Name); err != nil {
		return fmt.Errorf("%s(%s): drop %s failed: %w", rc.coll.Name(), w.name, old.Name, err)
	}
	return rc.create(ctx, w)
}

// ensure makes one desired index exist with the right name and options.
func (rc reconciler) ensure(ctx context.Context, w wantIndex) error {
	log := rc.log.With(zap.String("name", w.name), zap.String("keys", w.sig), zap.Bool("unique", w.unique))
	start := time.Now()

	have, err := rc.existing(ctx)
	if err != nil {
		log.Warn("listing indexes failed; creating blind", zap.Error(err))
	}

	ex, found := have[w.sig]
	switch {
	case found && isUnique(ex.Unique) == w.unique && (w.name == "" || ex.Name == w.name):
		log.Debug("reusing existing index")
		return nil

	case found:
		log.Info("replacing index", zap.String("existing", ex.Name))
		if err := rc.replace(ctx, ex, w); err != nil {
			return err
		}

	default:
		err := rc.create(ctx, w)
		if err == nil {
			break
		}
		if !isOptionsConflictErr(err) {
			log.Warn("index ensure failed", zap.Error(err))
			return err
		}
		// A concurrent starter or an older deploy got there first.
		have, lerr := rc.existing(ctx)
		ex, ok := have[w.sig]
		if lerr != nil || !ok {
			log.Warn("index ensure failed", zap.Error(err))
			return err
		}
		if isUnique(ex.Unique) == w.unique {
			log.Debug("reusing existing index after conflict", zap.String("existing", ex.Name))
			return nil
		}
		if err := rc.replace(ctx, ex, w); err != nil {
			return err
		}
	}

	log.Info("index ensured", zap.Duration("took", time.Since(start)))
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	rc := reconciler{coll: coll, log: zap.L().With(zap.String("collection", coll.Name()))}

	var errs []string
	for _, m := range models {
		if err := rc.ensure(ctx, newWantIndex(m)); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// duplicateFinder returns a mongo shell hint that lists documents sharing
// the first key of a unique index.
func duplicateFinder(coll string, keys bson.D) string {
	if len(keys) == 0 {
		return ""
	}
	field := keys[0].Key
	return fmt.Sprintf(" (duplicates exist on %s.%s; find them with "+
		"db.%s.aggregate([{ $group: { _id: \"$%s\", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))",
		coll, field, coll, field)
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// courses: unique key, catalog order, per-category order for the dashboard
// counts and the sections renderer.
func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("courses"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetName("uniq_course_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_course_position"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_course_category_position"),
		},
	})
}

func ensureEnrollments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("enrollments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_key", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_enrollment_course"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_enrollment_created"),
		},
	})
}

// contact_messages: request_id is unique so a retried insert cannot record
// the same submission twice.
func ensureContactMessages(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("contact_messages"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("uniq_contact_request").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contact_status"),
		},
	})
}
