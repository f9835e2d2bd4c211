package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// Asegura que SessionMetaRepo implementa apppicking.MetaRepository.
var _ apppicking.MetaRepository = (*SessionMetaRepo)(nil)

const sessionMetaTable = "picking_session_meta"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SessionMetaRepo cabecera de la salida por estación sobre PostgreSQL.
type SessionMetaRepo struct {
	pool *pgxpool.Pool
}

// NewSessionMetaRepository construye el adaptador.
func NewSessionMetaRepository(pool *pgxpool.Pool) *SessionMetaRepo {
	return &SessionMetaRepo{pool: pool}
}

// Get obtiene la cabecera guardada de la estación.
func (r *SessionMetaRepo) Get(ctx context.Context, station string) (*entity.SessionMeta, error) {
	query, args, err := selectMetaSQL(station)
	if err != nil {
		return nil, fmt.Errorf("build select session meta: %w", err)
	}

	var m entity.SessionMeta
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&m.Station, &m.Responsable, &m.Origen, &m.Destino, &m.Bultos, &m.Remito, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("estación %s: %w", station, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get session meta: %w", err)
	}
	return &m, nil
}

// Save inserta o reemplaza la cabecera de la estación.
func (r *SessionMetaRepo) Save(ctx context.Context, station string, m entity.SessionMeta) error {
	query, args, err := upsertMetaSQL(station, m)
	if err != nil {
		return fmt.Errorf("build upsert session meta: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert session meta: %w", err)
	}
	return nil
}

var metaColumns = []string{"station", "responsable", "origen", "destino", "bultos", "remito", "updated_at"}

func selectMetaSQL(station string) (string, []any, error) {
	return psql.
		Select(metaColumns...).
		From(sessionMetaTable).
		Where(sq.Eq{"station": station}).
		ToSql()
}

func upsertMetaSQL(station string, m entity.SessionMeta) (string, []any, error) {
	return psql.
		Insert(sessionMetaTable).
		Columns(metaColumns...).
		Values(station, m.Responsable, m.Origen, m.Destino, m.Bultos, m.Remito, m.UpdatedAt).
		Suffix("ON CONFLICT (station) DO UPDATE SET " +
			"responsable = EXCLUDED.responsable, origen = EXCLUDED.origen, destino = EXCLUDED.destino, " +
			"bultos = EXCLUDED.bultos, remito = EXCLUDED.remito, updated_at = EXCLUDED.updated_at").
		ToSql()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
