package repository

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/jobiq-care/services/auth/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	otpsCollection  = "otps"
)

// EnsureMongoIndexes makes email unique in both collections. Uniqueness on
// users is what turns a racing second account insert into ErrAlreadyExists.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, name := range []string{usersCollection, otpsCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, idx); err != nil {
			return unavailable("create "+name+" index", err)
		}
	}
	return nil
}

type mongoAccountRepository struct {
	coll *mongo.Collection
}

func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, unavailable("check account", err)
	}
	return n > 0, nil
}

func (r *mongoAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return unavailable("create account", err)
	}
	return nil
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a domain.Account
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, unavailable("find account", err)
	}
	return &a, nil
}

func (r *mongoAccountRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return unavailable("update password", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// otpDocument is the stored shape of an OTP record; the staged signup
// payload is flattened into name/password.
type otpDocument struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"otp"`
	Purpose   string    `bson:"purpose"`
	Name      string    `bson:"name,omitempty"`
	Password  string    `bson:"password,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`

	// Type is only present on documents written before purpose existed,
	// where reset codes carried type "reset".
	Type string `bson:"type,omitempty"`
}

// purpose resolves documents without a purpose field: type "reset" marks a
// reset code, anything else was a signup.
func (d *otpDocument) purpose() string {
	switch {
	case d.Purpose != "":
		return d.Purpose
	case d.Type == string(domain.PurposeReset):
		return string(domain.PurposeReset)
	default:
		return string(domain.PurposeSignup)
	}
}

type mongoOTPRepository struct {
	coll *mongo.Collection
}

func NewMongoOTPRepository(db *mongo.Database) OTPRepository {
	return &mongoOTPRepository{coll: db.Collection(otpsCollection)}
}

func (r *mongoOTPRepository) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	purpose, name, hash := domain.PendingFields(rec.Pending)
	doc := otpDocument{
		Email:     rec.Email,
		Code:      rec.Code,
		Purpose:   purpose,
		Name:      name,
		Password:  hash,
		ExpiresAt: rec.ExpiresAt.UTC(),
		CreatedAt: rec.CreatedAt.UTC(),
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"email": rec.Email}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable("store otp", err)
	}
	return nil
}

func (r *mongoOTPRepository) Find(ctx context.Context, email string) (*domain.OTPRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc otpDocument
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, unavailable("find otp", err)
	}

	pending, err := domain.PendingFromFields(doc.purpose(), doc.Name, doc.Password)
	if err != nil {
		return nil, err
	}
	return &domain.OTPRecord{
		Email:     doc.Email,
		Code:      doc.Code,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
		Pending:   pending,
	}, nil
}

func (r *mongoOTPRepository) DeleteIfCode(ctx context.Context, email, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email, "otp": code})
	if err != nil {
		return false, unavailable("consume otp", err)
	}
	return res.DeletedCount == 1, nil
}
