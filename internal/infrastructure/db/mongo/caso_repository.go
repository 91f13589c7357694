package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/munitrack/casos-api/internal/core/domain"
)

const casosCollection = "casos"

// CasoRepository persists casos in the casos collection. Audit arrays live
// inside the caso document, so a status change and its modificación entry
// are one atomic document write.
type CasoRepository struct {
	coll *mongo.Collection
}

func NewCasoRepository(db *mongo.Database) *CasoRepository {
	return &CasoRepository{coll: db.Collection(casosCollection)}
}

type actuacionDoc struct {
	Texto   string    `bson:"texto"`
	Fecha   time.Time `bson:"fecha"`
	Usuario string    `bson:"usuario"`
}

type modificacionDoc struct {
	Campo        string    `bson:"campo"`
	ValorAntiguo string    `bson:"valor_antiguo"`
	ValorNuevo   string    `bson:"valor_nuevo"`
	Fecha        time.Time `bson:"fecha"`
	Usuario      string    `bson:"usuario"`
}

type casoDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	TipoObra            string             `bson:"tipo_obra"`
	Parroquia           string             `bson:"parroquia"`
	Circuito            string             `bson:"circuito"`
	Eje                 string             `bson:"eje"`
	CodigoEje           string             `bson:"codigo_eje"`
	Comuna              string             `bson:"comuna"`
	NombreJefeComuna    string             `bson:"nombre_jefe_comuna"`
	NombreEnlaceComunal string             `bson:"nombre_enlace_comunal"`
	Link                string             `bson:"link"`
	Descripcion         string             `bson:"descripcion"`
	FechaCaso           time.Time          `bson:"fecha_caso"`
	Archivo             string             `bson:"archivo"`
	Estado              string             `bson:"estado"`
	FechaEntrega        *time.Time         `bson:"fecha_entrega"`
	Actuaciones         []actuacionDoc     `bson:"actuaciones"`
	Modificaciones      []modificacionDoc  `bson:"modificaciones"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
}

func datosToFields(d domain.DatosCaso) bson.M {
	return bson.M{
		"tipo_obra":             d.TipoObra,
		"parroquia":             d.Parroquia,
		"circuito":              d.Circuito,
		"eje":                   d.Eje,
		"codigo_eje":            d.CodigoEje,
		"comuna":                d.Comuna,
		"nombre_jefe_comuna":    d.NombreJefeComuna,
		"nombre_enlace_comunal": d.NombreEnlaceComunal,
		"link":                  d.Link,
		"descripcion":           d.Descripcion,
		"fecha_caso":            d.FechaCaso,
	}
}

func toModDoc(m domain.Modificacion) modificacionDoc {
	return modificacionDoc{
		Campo:        m.Campo,
		ValorAntiguo: m.ValorAntiguo,
		ValorNuevo:   m.ValorNuevo,
		Fecha:        m.Fecha,
		Usuario:      m.Usuario,
	}
}

func (d casoDoc) toDomain() *domain.Caso {
	caso := &domain.Caso{
		ID: d.ID.Hex(),
		DatosCaso: domain.DatosCaso{
			TipoObra:            d.TipoObra,
			Parroquia:           d.Parroquia,
			Circuito:            d.Circuito,
			Eje:                 d.Eje,
			CodigoEje:           d.CodigoEje,
			Comuna:              d.Comuna,
			NombreJefeComuna:    d.NombreJefeComuna,
			NombreEnlaceComunal: d.NombreEnlaceComunal,
			Link:                d.Link,
			Descripcion:         d.Descripcion,
			FechaCaso:           d.FechaCaso.UTC(),
		},
		Archivo:        d.Archivo,
		Estado:         domain.Estado(d.Estado),
		FechaEntrega:   d.FechaEntrega,
		Actuaciones:    make([]domain.Actuacion, len(d.Actuaciones)),
		Modificaciones: make([]domain.Modificacion, len(d.Modificaciones)),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	for i, a := range d.Actuaciones {
		caso.Actuaciones[i] = domain.Actuacion{Texto: a.Texto, Fecha: a.Fecha.UTC(), Usuario: a.Usuario}
	}
	for i, m := range d.Modificaciones {
		caso.Modificaciones[i] = domain.Modificacion{
			Campo:        m.Campo,
			ValorAntiguo: m.ValorAntiguo,
			ValorNuevo:   m.ValorNuevo,
			Fecha:        m.Fecha.UTC(),
			Usuario:      m.Usuario,
		}
	}
	return caso
}

// parseID maps a malformed hex id to domain.ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

func (r *CasoRepository) Insert(ctx context.Context, c *domain.Caso) (*domain.Caso, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := casoDoc{
		TipoObra:            c.TipoObra,
		Parroquia:           c.Parroquia,
		Circuito:            c.Circuito,
		Eje:                 c.Eje,
		CodigoEje:           c.CodigoEje,
		Comuna:              c.Comuna,
		NombreJefeComuna:    c.NombreJefeComuna,
		NombreEnlaceComunal: c.NombreEnlaceComunal,
		Link:                c.Link,
		Descripcion:         c.Descripcion,
		FechaCaso:           c.FechaCaso,
		Archivo:             c.Archivo,
		Estado:              string(c.Estado),
		FechaEntrega:        c.FechaEntrega,
		Actuaciones:         []actuacionDoc{},
		Modificaciones:      []modificacionDoc{},
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert caso: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CasoRepository) FindByID(ctx context.Context, id string) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc casoDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCasoNotFound
		}
		return nil, fmt.Errorf("find caso: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CasoRepository) FindAll(ctx context.Context) ([]*domain.Caso, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list casos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []casoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode casos: %w", err)
	}

	casos := make([]*domain.Caso, len(docs))
	for i, d := range docs {
		casos[i] = d.toDomain()
	}
	return casos, nil
}

// ReplaceDatos overwrites the descriptive fields and appends mods in a
// single document write.
func (r *CasoRepository) ReplaceDatos(ctx context.Context, id string, datos domain.DatosCaso, mods []domain.Modificacion) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields := datosToFields(datos)
	fields["updated_at"] = time.Now().UTC()
	update := bson.M{"$set": fields}

	if len(mods) > 0 {
		modDocs := make([]modificacionDoc, len(mods))
		for i, m := range mods {
			modDocs[i] = toModDoc(m)
		}
		update["$push"] = bson.M{"modificaciones": bson.M{"$each": modDocs}}
	}

	return r.findAndUpdate(ctx, bson.M{"_id": oid}, update)
}

// UpdateEstado sets the estado and appends mod, conditional on the stored
// estado still matching from. A filter miss on an existing document means a
// concurrent writer got there first.
func (r *CasoRepository) UpdateEstado(ctx context.Context, id string, from, to domain.Estado, mod domain.Modificacion) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "estado": string(from)}
	update := bson.M{
		"$set":  bson.M{"estado": string(to), "updated_at": time.Now().UTC()},
		"$push": bson.M{"modificaciones": toModDoc(mod)},
	}

	caso, err := r.findAndUpdate(ctx, filter, update)
	if err == nil {
		return caso, nil
	}
	if !errors.Is(err, domain.ErrCasoNotFound) {
		return nil, err
	}

	// Distinguish a missing document from a concurrent estado change.
	if exists, checkErr := r.exists(ctx, oid); checkErr != nil {
		return nil, checkErr
	} else if exists {
		return nil, domain.ErrEstadoConflict
	}
	return nil, domain.ErrCasoNotFound
}

func (r *CasoRepository) MarkEntregado(ctx context.Context, id string, fecha time.Time) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"estado":        string(domain.EstadoEntregado),
		"fecha_entrega": fecha,
		"updated_at":    time.Now().UTC(),
	}}

	return r.findAndUpdate(ctx, bson.M{"_id": oid}, update)
}

func (r *CasoRepository) PushActuacion(ctx context.Context, id string, act domain.Actuacion) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"actuaciones": actuacionDoc{Texto: act.Texto, Fecha: act.Fecha, Usuario: act.Usuario}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	return r.findAndUpdate(ctx, bson.M{"_id": oid}, update)
}

func (r *CasoRepository) Delete(ctx context.Context, id string) (*domain.Caso, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc casoDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCasoNotFound
		}
		return nil, fmt.Errorf("delete caso: %w", err)
	}
	return doc.toDomain(), nil
}

// findAndUpdate applies update and returns the post-update document.
func (r *CasoRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Caso, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc casoDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCasoNotFound
		}
		return nil, fmt.Errorf("update caso: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CasoRepository) exists(ctx context.Context, oid primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("count caso: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the secondary indexes used by list and reporting
// queries.
func (r *CasoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "estado", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
