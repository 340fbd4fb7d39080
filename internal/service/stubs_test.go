package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests. All of them run with
// a nil DB so runTx executes the callback directly, no postgres involved.

// ── stubCobroRepo ─────────────────────────────────────────────────────────────

type stubCobroRepo struct {
	cobros   map[uuid.UUID]*model.Cobro
	detalles []*model.CobroDetalle
	cargos   []*model.UnidadCargo
	// unidades lets ListByCondominioPeriodo hydrate headers without joins
	unidades map[uuid.UUID]*model.Unidad
}

func newStubCobroRepo() *stubCobroRepo {
	return &stubCobroRepo{
		cobros:   make(map[uuid.UUID]*model.Cobro),
		unidades: make(map[uuid.UUID]*model.Unidad),
	}
}

func (r *stubCobroRepo) DB() *gorm.DB { return nil }

func (r *stubCobroRepo) FindOrCreate(_ context.Context, _ *gorm.DB, unidadID uuid.UUID, periodo, tipo string) (*model.Cobro, error) {
	for _, c := range r.cobros {
		if c.UnidadID == unidadID && c.Periodo == periodo && c.Tipo == tipo {
			return c, nil
		}
	}
	c := &model.Cobro{ID: uuid.New(), UnidadID: unidadID, Periodo: periodo, Tipo: tipo, Estado: model.CobroPendiente}
	r.cobros[c.ID] = c
	return c, nil
}

func (r *stubCobroRepo) Save(_ context.Context, _ *gorm.DB, cobro *model.Cobro) error {
	if cobro.ID == uuid.Nil {
		cobro.ID = uuid.New()
	}
	r.cobros[cobro.ID] = cobro
	return nil
}

func (r *stubCobroRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cobro, error) {
	c, ok := r.cobros[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCobroRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Cobro, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCobroRepo) ListPendientesFIFO(_ context.Context, _ *gorm.DB, unidadID uuid.UUID) ([]model.Cobro, error) {
	var out []model.Cobro
	for _, c := range r.cobros {
		if c.UnidadID == unidadID && c.Saldo.IsPositive() {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaEmision.Equal(out[j].FechaEmision) {
			return out[i].FechaEmision.Before(out[j].FechaEmision)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func (r *stubCobroRepo) ListAnterioresConSaldo(_ context.Context, _ *gorm.DB, unidadID uuid.UUID, periodo string) ([]model.Cobro, error) {
	var out []model.Cobro
	for _, c := range r.cobros {
		if c.UnidadID == unidadID && c.Periodo < periodo && c.Saldo.IsPositive() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCobroRepo) ListByCondominioPeriodo(_ context.Context, _ uuid.UUID, periodo string) ([]model.Cobro, error) {
	var out []model.Cobro
	for _, c := range r.cobros {
		if c.Periodo == periodo {
			cc := *c
			if u, ok := r.unidades[c.UnidadID]; ok {
				cc.Unidad = u
			}
			for _, d := range r.detalles {
				if d.CobroID == c.ID {
					cc.Detalles = append(cc.Detalles, *d)
				}
			}
			out = append(out, cc)
		}
	}
	return out, nil
}

func (r *stubCobroRepo) ListByUnidad(_ context.Context, unidadID uuid.UUID) ([]model.Cobro, error) {
	var out []model.Cobro
	for _, c := range r.cobros {
		if c.UnidadID == unidadID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCobroRepo) UpsertDetalle(_ context.Context, _ *gorm.DB, det *model.CobroDetalle) error {
	for _, d := range r.detalles {
		if d.CobroID == det.CobroID && d.TipoLinea == det.TipoLinea {
			if det.UnidadCargoID != nil && (d.UnidadCargoID == nil || *d.UnidadCargoID != *det.UnidadCargoID) {
				continue
			}
			d.Glosa = det.Glosa
			d.Monto = det.Monto
			d.UnidadCargoID = det.UnidadCargoID
			*det = *d
			return nil
		}
	}
	det.ID = uuid.New()
	cp := *det
	r.detalles = append(r.detalles, &cp)
	return nil
}

func (r *stubCobroRepo) CreateDetalle(_ context.Context, _ *gorm.DB, det *model.CobroDetalle) error {
	det.ID = uuid.New()
	cp := *det
	r.detalles = append(r.detalles, &cp)
	return nil
}

func (r *stubCobroRepo) DeleteDetalleTipo(_ context.Context, _ *gorm.DB, cobroID uuid.UUID, tipoLinea string) error {
	kept := r.detalles[:0]
	for _, d := range r.detalles {
		if d.CobroID == cobroID && d.TipoLinea == tipoLinea {
			continue
		}
		kept = append(kept, d)
	}
	r.detalles = kept
	return nil
}

func (r *stubCobroRepo) CountDetalles(_ context.Context, cobroID uuid.UUID) (int64, error) {
	var n int64
	for _, d := range r.detalles {
		if d.CobroID == cobroID {
			n++
		}
	}
	return n, nil
}

func (r *stubCobroRepo) UpsertUnidadCargo(_ context.Context, _ *gorm.DB, cargo *model.UnidadCargo) error {
	for _, c := range r.cargos {
		if c.UnidadID == cargo.UnidadID && c.Periodo == cargo.Periodo && c.ConceptoID == cargo.ConceptoID && c.Tipo == cargo.Tipo {
			c.Monto = cargo.Monto
			c.Detalle = cargo.Detalle
			*cargo = *c
			return nil
		}
	}
	cargo.ID = uuid.New()
	cp := *cargo
	r.cargos = append(r.cargos, &cp)
	return nil
}

func (r *stubCobroRepo) CreateUnidadCargo(_ context.Context, _ *gorm.DB, cargo *model.UnidadCargo) error {
	cargo.ID = uuid.New()
	cp := *cargo
	r.cargos = append(r.cargos, &cp)
	return nil
}

func (r *stubCobroRepo) ListCargosAnexo(_ context.Context, _ *gorm.DB, _ uuid.UUID, periodo string, conceptoID uuid.UUID) ([]model.UnidadCargo, error) {
	var out []model.UnidadCargo
	for _, c := range r.cargos {
		if c.Periodo == periodo && c.ConceptoID == conceptoID && c.Tipo == model.CargoExtra {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCobroRepo) PurgeCargosAnexo(_ context.Context, _ *gorm.DB, _ uuid.UUID, periodo string, conceptoID uuid.UUID) error {
	var purged []uuid.UUID
	kept := r.cargos[:0]
	for _, c := range r.cargos {
		if c.Periodo == periodo && c.ConceptoID == conceptoID && c.Tipo == model.CargoExtra {
			purged = append(purged, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	r.cargos = kept

	keptDet := r.detalles[:0]
	for _, d := range r.detalles {
		linked := false
		for _, id := range purged {
			if d.UnidadCargoID != nil && *d.UnidadCargoID == id {
				linked = true
				break
			}
		}
		if !linked {
			keptDet = append(keptDet, d)
		}
	}
	r.detalles = keptDet
	return nil
}

var _ repository.CobroRepository = (*stubCobroRepo)(nil)

// ── stubGastoRepo ─────────────────────────────────────────────────────────────

type stubGastoRepo struct {
	total  decimal.Decimal
	gastos []model.Gasto
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubGastoRepo) List(_ context.Context, condominioID uuid.UUID, periodo string) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.CondominioID == condominioID && (periodo == "" || g.Periodo == periodo) {
			out = append(out, g)
		}
	}
	return out, nil
}
func (r *stubGastoRepo) SumByPeriodo(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ string) (decimal.Decimal, error) {
	return r.total, nil
}
func (r *stubGastoRepo) GetOrCreateCategoria(_ context.Context, nombre string) (*model.GastoCategoria, error) {
	return &model.GastoCategoria{ID: uuid.New(), Nombre: nombre}, nil
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

// ── stubUnidadRepo ────────────────────────────────────────────────────────────

type stubUnidadRepo struct {
	unidades []model.Unidad
}

func (r *stubUnidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Unidad, error) {
	for i := range r.unidades {
		if r.unidades[i].ID == id {
			return &r.unidades[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUnidadRepo) ListByCondominio(_ context.Context, _ uuid.UUID) ([]model.Unidad, error) {
	return r.unidades, nil
}

func (r *stubUnidadRepo) ListAnexoCobrables(_ context.Context, _ *gorm.DB, _ uuid.UUID, subtipoID *uuid.UUID) ([]model.Unidad, error) {
	var out []model.Unidad
	for _, u := range r.unidades {
		if !u.AnexoCobrable {
			continue
		}
		if subtipoID != nil && (u.SubtipoID == nil || *u.SubtipoID != *subtipoID) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUnidadRepo) Create(_ context.Context, u *model.Unidad) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.unidades = append(r.unidades, *u)
	return nil
}

var _ repository.UnidadRepository = (*stubUnidadRepo)(nil)

// ── stubProrrateoRepo ─────────────────────────────────────────────────────────

type stubProrrateoRepo struct {
	reglas    map[uuid.UUID]*model.ProrrateoRegla
	factores  []model.ProrrateoFactorUnidad
	conceptos map[string]*model.CatConceptoCargo
	// errOrdinaria, when set, simulates a transient lookup failure
	errOrdinaria error
}

func newStubProrrateoRepo() *stubProrrateoRepo {
	return &stubProrrateoRepo{
		reglas:    make(map[uuid.UUID]*model.ProrrateoRegla),
		conceptos: make(map[string]*model.CatConceptoCargo),
	}
}

func (r *stubProrrateoRepo) FindReglaByID(_ context.Context, id uuid.UUID) (*model.ProrrateoRegla, error) {
	regla, ok := r.reglas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return regla, nil
}

func (r *stubProrrateoRepo) FindReglaOrdinaria(_ context.Context, _ *gorm.DB, condominioID uuid.UUID) (*model.ProrrateoRegla, error) {
	if r.errOrdinaria != nil {
		return nil, r.errOrdinaria
	}
	for _, regla := range r.reglas {
		if regla.CondominioID == condominioID && regla.Tipo == model.ProrrateoOrdinario {
			return regla, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProrrateoRepo) CreateRegla(_ context.Context, _ *gorm.DB, regla *model.ProrrateoRegla) error {
	if regla.ID == uuid.Nil {
		regla.ID = uuid.New()
	}
	r.reglas[regla.ID] = regla
	return nil
}

func (r *stubProrrateoRepo) GetOrCreateConcepto(_ context.Context, _ *gorm.DB, codigo, nombre string) (*model.CatConceptoCargo, error) {
	if c, ok := r.conceptos[codigo]; ok {
		return c, nil
	}
	c := &model.CatConceptoCargo{ID: uuid.New(), Codigo: codigo, Nombre: nombre}
	r.conceptos[codigo] = c
	return c, nil
}

func (r *stubProrrateoRepo) DeleteFactores(_ context.Context, _ *gorm.DB, reglaID uuid.UUID) error {
	kept := r.factores[:0]
	for _, f := range r.factores {
		if f.ReglaID != reglaID {
			kept = append(kept, f)
		}
	}
	r.factores = kept
	return nil
}

func (r *stubProrrateoRepo) BulkCreateFactores(_ context.Context, _ *gorm.DB, factores []model.ProrrateoFactorUnidad) error {
	r.factores = append(r.factores, factores...)
	return nil
}

func (r *stubProrrateoRepo) ListFactores(_ context.Context, _ *gorm.DB, reglaID uuid.UUID) ([]model.ProrrateoFactorUnidad, error) {
	var out []model.ProrrateoFactorUnidad
	for _, f := range r.factores {
		if f.ReglaID == reglaID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubProrrateoRepo) CountFactores(_ context.Context, _ *gorm.DB, reglaID uuid.UUID) (int64, error) {
	var n int64
	for _, f := range r.factores {
		if f.ReglaID == reglaID {
			n++
		}
	}
	return n, nil
}

var _ repository.ProrrateoRepository = (*stubProrrateoRepo)(nil)

// ── stubInteresRepo ───────────────────────────────────────────────────────────

type stubInteresRepo struct {
	regla *model.InteresRegla
	// err, when set, simulates a transient lookup failure
	err error
}

func (r *stubInteresRepo) FindReglaVigente(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ *uuid.UUID, fecha time.Time) (*model.InteresRegla, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.regla == nil || !r.regla.VigenteEn(fecha) {
		return nil, gorm.ErrRecordNotFound
	}
	return r.regla, nil
}

func (r *stubInteresRepo) Create(_ context.Context, regla *model.InteresRegla) error {
	r.regla = regla
	return nil
}

var _ repository.InteresRepository = (*stubInteresRepo)(nil)

// ── stubFondoRepo ─────────────────────────────────────────────────────────────

type stubFondoRepo struct {
	param       *model.ParamReglamento
	movimientos map[string]*model.FondoReservaMovimiento
}

func newStubFondoRepo() *stubFondoRepo {
	return &stubFondoRepo{movimientos: make(map[string]*model.FondoReservaMovimiento)}
}

func (r *stubFondoRepo) GetOrCreateParam(_ context.Context, _ *gorm.DB, condominioID uuid.UUID, defaultPct decimal.Decimal) (*model.ParamReglamento, error) {
	if r.param == nil {
		r.param = &model.ParamReglamento{ID: uuid.New(), CondominioID: condominioID, RecargoFondoReservaPct: defaultPct}
	}
	return r.param, nil
}

func (r *stubFondoRepo) UpsertMovimiento(_ context.Context, _ *gorm.DB, mov *model.FondoReservaMovimiento) error {
	key := mov.CondominioID.String() + mov.Periodo + mov.Tipo
	if existing, ok := r.movimientos[key]; ok {
		existing.Monto = mov.Monto
		*mov = *existing
		return nil
	}
	mov.ID = uuid.New()
	cp := *mov
	r.movimientos[key] = &cp
	return nil
}

func (r *stubFondoRepo) CountMovimientos(_ context.Context, condominioID uuid.UUID, periodo string) (int64, error) {
	var n int64
	for _, m := range r.movimientos {
		if m.CondominioID == condominioID && m.Periodo == periodo {
			n++
		}
	}
	return n, nil
}

var _ repository.FondoRepository = (*stubFondoRepo)(nil)

// ── stubAnexoRepo ─────────────────────────────────────────────────────────────

type stubAnexoRepo struct {
	reglas []model.AnexoRegla
}

func (r *stubAnexoRepo) ListReglasVigentes(_ context.Context, _ *gorm.DB, _ uuid.UUID, fecha time.Time) ([]model.AnexoRegla, error) {
	var out []model.AnexoRegla
	for _, regla := range r.reglas {
		if regla.VigenteEn(fecha) {
			out = append(out, regla)
		}
	}
	return out, nil
}

func (r *stubAnexoRepo) Create(_ context.Context, regla *model.AnexoRegla) error {
	r.reglas = append(r.reglas, *regla)
	return nil
}

var _ repository.AnexoRepository = (*stubAnexoRepo)(nil)

// ── stubPagoRepo ──────────────────────────────────────────────────────────────

type stubPagoRepo struct {
	pagos        map[uuid.UUID]*model.Pago
	aplicaciones []model.PagoAplicacion
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) DB() *gorm.DB { return nil }

func (r *stubPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	cp.Aplicaciones = nil
	for _, a := range r.aplicaciones {
		if a.PagoID == id {
			cp.Aplicaciones = append(cp.Aplicaciones, a)
		}
	}
	return &cp, nil
}

func (r *stubPagoRepo) CreateAplicacion(_ context.Context, _ *gorm.DB, a *model.PagoAplicacion) error {
	a.ID = uuid.New()
	r.aplicaciones = append(r.aplicaciones, *a)
	return nil
}

func (r *stubPagoRepo) ListByUnidad(_ context.Context, unidadID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.UnidadID == unidadID {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── stubAuditoriaRepo ─────────────────────────────────────────────────────────

type stubAuditoriaRepo struct {
	entries []model.RegistroAuditoria
	fail    bool
}

func (r *stubAuditoriaRepo) Create(_ context.Context, entry *model.RegistroAuditoria) error {
	if r.fail {
		return errors.New("audit sink down")
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditoriaRepo) List(_ context.Context, _ string, _ int) ([]model.RegistroAuditoria, error) {
	return r.entries, nil
}

var _ repository.AuditoriaRepository = (*stubAuditoriaRepo)(nil)

// ── stubPersonaRepo ───────────────────────────────────────────────────────────

type stubPersonaRepo struct {
	destinatarios map[uuid.UUID][]model.Persona
}

func (r *stubPersonaRepo) FindDestinatarios(_ context.Context, unidadID uuid.UUID) ([]model.Persona, error) {
	return r.destinatarios[unidadID], nil
}
func (r *stubPersonaRepo) CreatePersona(_ context.Context, _ *model.Persona) error     { return nil }
func (r *stubPersonaRepo) CreateOcupacion(_ context.Context, _ *model.Ocupacion) error { return nil }

var _ repository.PersonaRepository = (*stubPersonaRepo)(nil)

// ── stubUsuarioRepo ───────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios []model.Usuario
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for i := range r.usuarios {
		if r.usuarios[i].Username == username && r.usuarios[i].Activo {
			return &r.usuarios[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for i := range r.usuarios {
		if r.usuarios[i].ID == id {
			return &r.usuarios[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios = append(r.usuarios, *u)
	return nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	for i := range r.usuarios {
		if r.usuarios[i].ID == u.ID {
			r.usuarios[i] = *u
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if incluirInactivos || u.Activo {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAdministradores(_ context.Context, condominioID uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Rol != "administrador" || !u.Activo {
			continue
		}
		if u.CondominioID == nil || *u.CondominioID == condominioID {
			out = append(out, u)
		}
	}
	return out, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── stubNotificacionRepo ──────────────────────────────────────────────────────

type stubNotificacionRepo struct {
	notificaciones []model.Notificacion
}

func (r *stubNotificacionRepo) Create(_ context.Context, n *model.Notificacion) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notificaciones = append(r.notificaciones, *n)
	return nil
}

func (r *stubNotificacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notificacion, error) {
	for i := range r.notificaciones {
		if r.notificaciones[i].ID == id {
			return &r.notificaciones[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubNotificacionRepo) Update(_ context.Context, n *model.Notificacion) error {
	for i := range r.notificaciones {
		if r.notificaciones[i].ID == n.ID {
			r.notificaciones[i] = *n
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubNotificacionRepo) ListPendingRetries(_ context.Context, _ time.Time, _ int) ([]model.Notificacion, error) {
	return nil, nil
}

var _ repository.NotificacionRepository = (*stubNotificacionRepo)(nil)
