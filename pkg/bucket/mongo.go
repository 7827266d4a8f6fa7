package bucket

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// mongoDoc is the on-the-wire shape of one bucket record.
type mongoDoc struct {
	OID     uint64 `bson:"_id"`
	Type    string `bson:"type"`
	Data    []byte `bson:"data"`
	Deleted bool   `bson:"deleted"`
}

// MongoBucket is the production [Bucket], one document per oid in a
// single collection, matching spec §6's "Bucket file" semantics:
// append assigns the next oid, tombstone flips `deleted` in place
// rather than issuing a real delete, and Shakedown drains into a fresh
// collection and returns the renumbering stream.
type MongoBucket struct {
	coll    *mongo.Collection
	db      *mongo.Database
	collNum int // suffix disambiguating successive Shakedown collections
}

// NewMongoBucket wraps an existing collection (caller owns the client
// lifecycle and calls client.Disconnect on shutdown).
func NewMongoBucket(db *mongo.Database, collection string) *MongoBucket {
	return &MongoBucket{coll: db.Collection(collection), db: db}
}

func (b *MongoBucket) Append(ctx context.Context, typ string, data []byte) (uint64, error) {
	oid, err := b.nextOID(ctx)
	if err != nil {
		return 0, err
	}
	_, err = b.coll.InsertOne(ctx, mongoDoc{OID: oid, Type: typ, Data: data})
	if err != nil {
		return 0, herrors.Wrap(herrors.ErrCodeStore, err, "append oid %d", oid)
	}
	return oid, nil
}

func (b *MongoBucket) nextOID(ctx context.Context) (uint64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var last mongoDoc
	err := b.coll.FindOne(ctx, bson.D{}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, herrors.Wrap(herrors.ErrCodeStore, err, "determine next oid")
	}
	return last.OID + 1, nil
}

func (b *MongoBucket) Get(ctx context.Context, oid uint64) (Record, error) {
	var doc mongoDoc
	err := b.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Record{}, herrors.New(herrors.ErrCodeStore, "no such oid %d", oid)
	}
	if err != nil {
		return Record{}, herrors.Wrap(herrors.ErrCodeStore, err, "get oid %d", oid)
	}
	return Record{OID: doc.OID, Type: doc.Type, Data: doc.Data, Deleted: doc.Deleted}, nil
}

func (b *MongoBucket) Tombstone(ctx context.Context, oid uint64) error {
	res, err := b.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "deleted", Value: true}, {Key: "data", Value: nil}}}},
	)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeStore, err, "tombstone oid %d", oid)
	}
	if res.MatchedCount == 0 {
		return herrors.New(herrors.ErrCodeStore, "no such oid %d", oid)
	}
	return nil
}

func (b *MongoBucket) Len(ctx context.Context) (int, error) {
	n, err := b.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, herrors.Wrap(herrors.ErrCodeStore, err, "count")
	}
	return int(n), nil
}

// Shakedown streams every document out in oid order, drops tombstones,
// and inserts the survivors into a fresh collection with gap-free
// oids, returning the remap the indexer's resolver/merge stages use to
// renumber their own oid references (spec §6).
func (b *MongoBucket) Shakedown(ctx context.Context) ([]Remap, error) {
	cur, err := b.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeStore, err, "shakedown scan")
	}
	defer cur.Close(ctx)

	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeStore, err, "shakedown decode")
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].OID < docs[j].OID })

	b.collNum++
	fresh := b.db.Collection(b.coll.Name() + shakedownSuffix(b.collNum))

	remaps := make([]Remap, 0, len(docs))
	next := uint64(1)
	var survivors []any
	for _, d := range docs {
		if d.Deleted {
			remaps = append(remaps, Remap{OldOID: d.OID, NewOID: DeletedOID})
			continue
		}
		newOID := next
		next++
		remaps = append(remaps, Remap{OldOID: d.OID, NewOID: newOID})
		survivors = append(survivors, mongoDoc{OID: newOID, Type: d.Type, Data: d.Data})
	}
	if len(survivors) > 0 {
		if _, err := fresh.InsertMany(ctx, survivors); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeStore, err, "shakedown insert")
		}
	}
	if err := b.coll.Drop(ctx); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeStore, err, "shakedown drop old collection")
	}
	b.coll = fresh
	return remaps, nil
}

func shakedownSuffix(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "_shk0"
	}
	buf := make([]byte, 0, 6)
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "_shk" + string(buf)
}
