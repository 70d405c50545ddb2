package service

import (
	"context"
	"fmt"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/cache"
	"interfaz/internal/dto"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, actor model.Actor, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ListarStockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	cache       *cache.ProductoCache
	notifier    StockNotifier
	alertas     *AlertaStock
}

// NewProductoService accepts a nil cache, notifier and alertas.
func NewProductoService(
	repo repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	cache *cache.ProductoCache,
	notifier StockNotifier,
	alertas *AlertaStock,
) ProductoService {
	return &productoService{repo: repo, movimientos: movimientos, cache: cache, notifier: notifier, alertas: alertas}
}

var umbralDefault = decimal.NewFromInt(5)

// Fractional digits kept by the DECIMAL(12,2) money columns and the
// DECIMAL(12,3) stock and quantity columns.
const (
	decimalesPrecio   int32 = 2
	decimalesCantidad int32 = 3
)

// ── Validation ───────────────────────────────────────────────────────────────

func validarNombre(nombre string, fe apierror.FieldErrors) string {
	limpio := strings.TrimSpace(nombre)
	if limpio == "" {
		fe.Add("name", "El nombre del producto es obligatorio.")
	}
	return limpio
}

func validarPrecio(precio decimal.Decimal, fe apierror.FieldErrors) {
	if !precio.IsPositive() {
		fe.Add("price", "El precio debe ser mayor a 0.")
	}
	validarDecimales("price", precio, decimalesPrecio, fe)
}

func validarStock(stock decimal.Decimal, fe apierror.FieldErrors) {
	if stock.IsNegative() {
		fe.Add("stock", "El stock no puede ser negativo.")
	}
	validarDecimales("stock", stock, decimalesCantidad, fe)
}

func validarUmbral(umbral decimal.Decimal, fe apierror.FieldErrors) {
	if umbral.IsNegative() {
		fe.Add("low_stock_threshold", "El umbral de stock bajo no puede ser negativo.")
	}
	validarDecimales("low_stock_threshold", umbral, decimalesCantidad, fe)
}

// validarDecimales rejects values the column would silently round.
// Trailing zeros do not count: 1.500 fits two decimals.
func validarDecimales(campo string, d decimal.Decimal, escala int32, fe apierror.FieldErrors) {
	if !d.Equal(d.Truncate(escala)) {
		fe.Add(campo, fmt.Sprintf("Asegúrese de que no haya más de %d decimales.", escala))
	}
}

// resolverReceta turns request lines into models. Lines without ingredient
// or quantity are kept; an ingredient id that is malformed or does not exist
// is a field error.
func (s *productoService) resolverReceta(ctx context.Context, productoID uuid.UUID, req []dto.RecetaIngredienteRequest, fe apierror.FieldErrors) ([]model.RecetaIngrediente, error) {
	lineas := make([]model.RecetaIngrediente, len(req))
	var ids []uuid.UUID
	for i, r := range req {
		campo := fmt.Sprintf("recipe_ingredients[%d].ingredient", i)
		lineas[i].Unidad = r.Unidad
		if r.Cantidad != nil {
			lineas[i].Cantidad = *r.Cantidad
			validarDecimales(fmt.Sprintf("recipe_ingredients[%d].quantity", i), *r.Cantidad, decimalesCantidad, fe)
		}
		if r.Ingrediente == nil || strings.TrimSpace(*r.Ingrediente) == "" {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(*r.Ingrediente))
		if err != nil {
			fe.Add(campo, fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", *r.Ingrediente))
			continue
		}
		if id == productoID {
			fe.Add(campo, "Un producto no puede ser insumo de sí mismo.")
			continue
		}
		lineas[i].IngredienteID = &id
		ids = append(ids, id)
	}

	existentes, err := s.repo.FindByIDs(ctx, repository.IDsOrdenados(ids))
	if err != nil {
		return nil, err
	}
	encontrados := make(map[uuid.UUID]model.Producto, len(existentes))
	for _, p := range existentes {
		encontrados[p.ID] = p
	}
	for i := range lineas {
		id := lineas[i].IngredienteID
		if id == nil {
			continue
		}
		p, ok := encontrados[*id]
		if !ok {
			fe.Add(fmt.Sprintf("recipe_ingredients[%d].ingredient", i),
				fmt.Sprintf("Pk inválido \"%s\" - el objeto no existe.", id.String()))
			continue
		}
		lineas[i].Ingrediente = &p
	}
	return lineas, nil
}

// ── Crear ────────────────────────────────────────────────────────────────────
// One transaction:
//   1. insert product and recipe lines
//   2. if the initial stock S > 0, lock every deductible ingredient in one
//      ordered SELECT … FOR UPDATE and subtract quantity × S from each
//   3. any shortage rolls back the product, its recipe and prior deductions

func (s *productoService) Crear(ctx context.Context, actor model.Actor, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	fe := apierror.FieldErrors{}

	nombre := validarNombre(req.Nombre, fe)
	if req.Precio == nil {
		fe.Add("price", "Este campo es requerido.")
	} else {
		validarPrecio(*req.Precio, fe)
	}
	stock := decimal.Zero
	if req.Stock != nil {
		stock = *req.Stock
		validarStock(stock, fe)
	}
	umbral := umbralDefault
	if req.UmbralStockBajo != nil {
		umbral = *req.UmbralStockBajo
		validarUmbral(umbral, fe)
	}
	unidad := req.Unidad
	if unidad == "" {
		unidad = "unidad"
	}

	p := &model.Producto{
		ID:              uuid.New(),
		Nombre:          nombre,
		Descripcion:     req.Descripcion,
		Stock:           stock,
		UmbralStockBajo: umbral,
		Categoria:       req.Categoria,
		EsIngrediente:   req.EsIngrediente,
		Unidad:          unidad,
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}

	lineas, err := s.resolverReceta(ctx, p.ID, req.RecetaIngredientes, fe)
	if err != nil {
		return nil, err
	}
	if fe.Any() {
		return nil, fe
	}

	var eventos []dto.EventoStock
	var cruzaron []model.Producto
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return fmt.Errorf("crear producto: %w", err)
		}
		for i := range lineas {
			lineas[i].ProductoID = p.ID
		}
		if err := s.repo.CreateRecetaTx(tx, lineas); err != nil {
			return fmt.Errorf("crear receta: %w", err)
		}
		if !stock.IsPositive() {
			return nil
		}
		var err error
		eventos, cruzaron, err = s.descontarInsumosTx(tx, actor, p, lineas, stock)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.despuesDeCommit(ctx, eventos)
	s.alertas.Avisar(ctx, cruzaron)
	log.Info().
		Str("producto_id", p.ID.String()).
		Str("nombre", p.Nombre).
		Int("insumos_descontados", len(eventos)).
		Msg("producto creado")

	return s.cargar(ctx, p.ID)
}

// descontarInsumosTx subtracts quantity × stockInicial from every deductible
// recipe line. Lines sharing an ingredient are deducted cumulatively. It also
// returns the ingredients the deduction left at or under their threshold.
func (s *productoService) descontarInsumosTx(tx *gorm.DB, actor model.Actor, compuesto *model.Producto, lineas []model.RecetaIngrediente, stockInicial decimal.Decimal) ([]dto.EventoStock, []model.Producto, error) {
	var ids []uuid.UUID
	for i := range lineas {
		if lineas[i].Descontable() {
			ids = append(ids, *lineas[i].IngredienteID)
		}
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	insumos, err := s.repo.LockForUpdateTx(tx, repository.IDsOrdenados(ids))
	if err != nil {
		return nil, nil, fmt.Errorf("bloquear insumos: %w", err)
	}
	antes := stocksDe(insumos)

	for i := range lineas {
		l := &lineas[i]
		if !l.Descontable() {
			continue
		}
		insumo, ok := insumos[*l.IngredienteID]
		if !ok {
			return nil, nil, &NoEncontradoError{Entidad: "Insumo", ID: l.IngredienteID.String()}
		}

		necesario := l.Cantidad.Mul(stockInicial)
		if insumo.Stock.LessThan(necesario) {
			return nil, nil, &StockInsuficienteError{
				Producto:   insumo.Nombre,
				Necesario:  necesario,
				Disponible: insumo.Stock,
				Insumo:     true,
			}
		}

		anterior := insumo.Stock
		insumo.Stock = anterior.Sub(necesario)
		if err := s.repo.SetStockTx(tx, insumo.ID, insumo.Stock); err != nil {
			return nil, nil, err
		}
		mov := &model.MovimientoStock{
			ProductoID:    insumo.ID,
			Tipo:          model.MovimientoReceta,
			Cantidad:      necesario.Neg(),
			StockAnterior: anterior,
			StockNuevo:    insumo.Stock,
			Motivo:        fmt.Sprintf("Alta de %s con stock inicial %s", compuesto.Nombre, stockInicial.String()),
			ReferenciaID:  &compuesto.ID,
			UsuarioID:     actor.UsuarioID(),
			Rol:           actor.Rol,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return nil, nil, err
		}

		log.Debug().
			Str("insumo", insumo.Nombre).
			Str("descontado", necesario.String()).
			Str("stock_nuevo", insumo.Stock.String()).
			Msg("insumo descontado")
	}

	return eventosDe(insumos), cruzaronUmbral(antes, insumos), nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	return s.cache.Obtener(ctx, id, func(ctx context.Context) (*dto.ProductoResponse, error) {
		return s.cargar(ctx, id)
	})
}

func (s *productoService) cargar(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto", id.String())
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) ListarStockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.repo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, len(productos))
	for i, p := range productos {
		alertas[i] = dto.AlertaStockResponse{
			ProductoID:      p.ID.String(),
			Nombre:          p.Nombre,
			Stock:           p.Stock,
			UmbralStockBajo: p.UmbralStockBajo,
			Unidad:          p.Unidad,
		}
	}
	return alertas, nil
}

// ── Actualizar ───────────────────────────────────────────────────────────────
// The row is locked before it is rewritten so a concurrent sale cannot be
// overwritten with a stale stock value. A new recipe replaces the old one in
// the same transaction. Raising stock here does not consume ingredients.

func (s *productoService) Actualizar(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	fe := apierror.FieldErrors{}
	var nombre string
	if req.Nombre != nil {
		nombre = validarNombre(*req.Nombre, fe)
	}
	if req.Precio != nil {
		validarPrecio(*req.Precio, fe)
	}
	if req.Stock != nil {
		validarStock(*req.Stock, fe)
	}
	if req.UmbralStockBajo != nil {
		validarUmbral(*req.UmbralStockBajo, fe)
	}
	var lineas []model.RecetaIngrediente
	if req.RecetaIngredientes != nil {
		var err error
		lineas, err = s.resolverReceta(ctx, id, *req.RecetaIngredientes, fe)
		if err != nil {
			return nil, err
		}
	}
	if fe.Any() {
		return nil, fe
	}

	var eventos []dto.EventoStock
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		bloqueados, err := s.repo.LockForUpdateTx(tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		p, ok := bloqueados[id]
		if !ok {
			return &NoEncontradoError{Entidad: "Producto", ID: id.String()}
		}

		if req.Nombre != nil {
			p.Nombre = nombre
		}
		if req.Descripcion != nil {
			p.Descripcion = req.Descripcion
		}
		if req.Precio != nil {
			p.Precio = *req.Precio
		}
		if req.UmbralStockBajo != nil {
			p.UmbralStockBajo = *req.UmbralStockBajo
		}
		if req.Categoria != nil {
			p.Categoria = *req.Categoria
		}
		if req.EsIngrediente != nil {
			p.EsIngrediente = *req.EsIngrediente
		}
		if req.Unidad != nil && *req.Unidad != "" {
			p.Unidad = *req.Unidad
		}

		anterior := p.Stock
		if req.Stock != nil && !req.Stock.Equal(anterior) {
			p.Stock = *req.Stock
			mov := &model.MovimientoStock{
				ProductoID:    p.ID,
				Tipo:          model.MovimientoAjuste,
				Cantidad:      p.Stock.Sub(anterior),
				StockAnterior: anterior,
				StockNuevo:    p.Stock,
				Motivo:        "Edición de producto",
				UsuarioID:     actor.UsuarioID(),
				Rol:           actor.Rol,
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}
			eventos = append(eventos, eventoDe(p))
		}

		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if req.RecetaIngredientes != nil {
			if err := s.repo.ReplaceRecetaTx(tx, p.ID, lineas); err != nil {
				return fmt.Errorf("reemplazar receta: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidar(ctx, id)
	publicar(s.notifier, eventos)
	return s.cargar(ctx, id)
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		enUso, err := s.repo.CountUsoComoIngredienteTx(tx, id)
		if err != nil {
			return err
		}
		if enUso > 0 {
			return ErrProductoEnUso
		}
		historial, err := s.repo.CountHistorialTx(tx, id)
		if err != nil {
			return err
		}
		if historial > 0 {
			return ErrProductoConHistorial
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return noEncontrado(err, "Producto", id.String())
	}
	s.cache.Invalidar(ctx, id)
	return nil
}

// despuesDeCommit invalidates cached copies of the touched products and
// publishes their new stock.
func (s *productoService) despuesDeCommit(ctx context.Context, eventos []dto.EventoStock) {
	ids := make([]uuid.UUID, 0, len(eventos))
	for _, ev := range eventos {
		if id, err := uuid.Parse(ev.ProductoID); err == nil {
			ids = append(ids, id)
		}
	}
	s.cache.Invalidar(ctx, ids...)
	publicar(s.notifier, eventos)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	receta := make([]dto.RecetaIngredienteResponse, len(p.Receta))
	for i, l := range p.Receta {
		r := dto.RecetaIngredienteResponse{
			ID:       l.ID.String(),
			Producto: p.ID.String(),
			Cantidad: l.Cantidad,
			Unidad:   l.Unidad,
		}
		if l.IngredienteID != nil {
			r.Ingrediente = strPtr(l.IngredienteID.String())
		}
		if l.Ingrediente != nil {
			r.IngredienteNombre = l.Ingrediente.Nombre
		}
		receta[i] = r
	}
	return dto.ProductoResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		Descripcion:     p.Descripcion,
		Precio:          p.Precio,
		Stock:           p.Stock,
		UmbralStockBajo: p.UmbralStockBajo,
		Categoria:       p.Categoria,
		EsIngrediente:   p.EsIngrediente,
		Unidad:          p.Unidad,
		Receta:          receta,
		Estado:          p.Estado(),
	}
}

func eventoDe(p *model.Producto) dto.EventoStock {
	return dto.EventoStock{
		ProductoID: p.ID.String(),
		Nombre:     p.Nombre,
		Stock:      p.Stock,
		Estado:     p.Estado(),
	}
}

func eventosDe(productos map[uuid.UUID]*model.Producto) []dto.EventoStock {
	eventos := make([]dto.EventoStock, 0, len(productos))
	for _, id := range ordenarClaves(productos) {
		eventos = append(eventos, eventoDe(productos[id]))
	}
	return eventos
}

func ordenarClaves(productos map[uuid.UUID]*model.Producto) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(productos))
	for id := range productos {
		ids = append(ids, id)
	}
	return repository.IDsOrdenados(ids)
}
