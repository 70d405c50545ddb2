package repository

import (
	"context"
	"sort"
	"strings"

	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products and their
// recipes. Services depend on this interface, not on the GORM implementation.
type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListStockBajo(ctx context.Context) ([]model.Producto, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Producto) error
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// LockForUpdateTx locks every row in ids with a single
	// SELECT … FOR UPDATE ordered by id, so concurrent operations always
	// acquire locks in the same order. Missing ids are absent from the map.
	LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error
	CreateRecetaTx(tx *gorm.DB, lineas []model.RecetaIngrediente) error
	// ReplaceRecetaTx deletes every recipe line of productoID and inserts lineas.
	ReplaceRecetaTx(tx *gorm.DB, productoID uuid.UUID, lineas []model.RecetaIngrediente) error
	CountUsoComoIngredienteTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	// CountHistorialTx counts the sale items, ledger rows and inventory
	// changes that reference id. Those rows keep the product alive.
	CountHistorialTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Receta").
		Preload("Receta.Ingrediente").
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	if len(ids) == 0 {
		return productos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if s := strings.TrimSpace(filter.Nombre); s != "" {
		q = q.Where("LOWER(nombre) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	switch filter.EsIngrediente {
	case "true":
		q = q.Where("es_ingrediente = ?", true)
	case "false":
		q = q.Where("es_ingrediente = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Receta").
		Preload("Receta.Ingrediente").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock <= umbral_stock_bajo").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *productoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("producto_id = ?", id).Delete(&model.RecetaIngrediente{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	bloqueados := make(map[uuid.UUID]*model.Producto, len(ids))
	if len(ids) == 0 {
		return bloqueados, nil
	}

	var productos []model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&productos).Error
	if err != nil {
		return nil, err
	}
	for i := range productos {
		bloqueados[productos[i].ID] = &productos[i]
	}
	return bloqueados, nil
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *productoRepo) CreateRecetaTx(tx *gorm.DB, lineas []model.RecetaIngrediente) error {
	if len(lineas) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&lineas).Error
}

func (r *productoRepo) ReplaceRecetaTx(tx *gorm.DB, productoID uuid.UUID, lineas []model.RecetaIngrediente) error {
	if err := tx.Where("producto_id = ?", productoID).Delete(&model.RecetaIngrediente{}).Error; err != nil {
		return err
	}
	for i := range lineas {
		lineas[i].ProductoID = productoID
	}
	return r.CreateRecetaTx(tx, lineas)
}

func (r *productoRepo) CountUsoComoIngredienteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.RecetaIngrediente{}).
		Where("ingrediente_id = ? AND producto_id <> ?", id, id).
		Count(&n).Error
	return n, err
}

func (r *productoRepo) CountHistorialTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []interface{}{&model.VentaItem{}, &model.MovimientoStock{}, &model.CambioInventario{}} {
		var n int64
		if err := tx.Model(m).Where("producto_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// IDsOrdenados deduplicates ids and sorts them ascending, the order in which
// LockForUpdateTx takes row locks.
func IDsOrdenados(ids []uuid.UUID) []uuid.UUID {
	vistos := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := vistos[id]; ok {
			continue
		}
		vistos[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
