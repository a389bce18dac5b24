// Package report genera la versión imprimible (PDF) del historial de equipos y solicitudes.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// HistoryReportUseCase arma el documento del historial y delega el render al generador.
// Los permisos son los mismos que los del historial en JSON.
type HistoryReportUseCase struct {
	ledger        *audit.LedgerUseCase
	equipmentRepo repository.EquipmentRepository
	requestRepo   repository.ServiceRequestRepository
	userRepo      repository.UserRepository
	generator     HistoryPDFGenerator
}

// NewHistoryReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewHistoryReportUseCase(
	ledger *audit.LedgerUseCase,
	equipmentRepo repository.EquipmentRepository,
	requestRepo repository.ServiceRequestRepository,
	userRepo repository.UserRepository,
	generator HistoryPDFGenerator,
) *HistoryReportUseCase {
	return &HistoryReportUseCase{
		ledger:        ledger,
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		generator:     generator,
	}
}

// Download devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound   si la entidad no existe.
//   - domain.ErrForbidden  si el actor no puede leer el historial.
func (uc *HistoryReportUseCase) Download(ctx context.Context, actor *entity.User, kind entity.EntityKind, id string) ([]byte, string, error) {
	// ── 1. Historial (aplica permisos y alcance) ──────────────────────────────
	entries, err := uc.ledger.Entries(ctx, actor, kind, id)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Encabezado según el tipo de entidad ────────────────────────────────
	doc := &HistoryDocument{
		EntityKind:  string(kind),
		EntityID:    id,
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: displayName(actor),
		QRData:      fmt.Sprintf("activos-ti:%s:%s", kind, id),
	}
	if err := uc.describe(ctx, doc, kind, id); err != nil {
		return nil, "", err
	}

	// ── 3. Líneas con el actor resuelto a nombre ──────────────────────────────
	names := map[string]string{}
	doc.Lines = make([]HistoryLine, 0, len(entries))
	for _, e := range entries {
		doc.Lines = append(doc.Lines, HistoryLine{
			OccurredAt:  e.OccurredAt,
			Actor:       uc.actorName(ctx, names, e.ActorID),
			PriorStatus: e.PriorStatus,
			NewStatus:   e.NewStatus,
			Accepted:    e.Accepted,
			Note:        e.Note,
		})
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err := uc.generator.GenerateHistoryPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("historial_%s_%s.pdf", kind, id), nil
}

func (uc *HistoryReportUseCase) describe(ctx context.Context, doc *HistoryDocument, kind entity.EntityKind, id string) error {
	switch kind {
	case entity.KindEquipment:
		e, err := uc.equipmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
		}
		doc.Title = "Equipo"
		doc.Subject = fmt.Sprintf("%s %s · S/N %s", e.Type, e.Model, e.Serial)
		doc.CurrentStatus = string(e.Status)
		doc.Details = []Field{
			{"Departamento", e.Department},
			{"Registrado", e.CreatedAt.UTC().Format("02/01/2006")},
		}
	case entity.KindRequest:
		r, err := uc.requestRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		doc.Title = "Solicitud de servicio"
		doc.Subject = r.Description
		doc.CurrentStatus = string(r.Status)
		doc.Details = []Field{
			{"Solicitante", uc.actorName(ctx, map[string]string{}, r.RequesterID)},
			{"Creada", r.CreatedAt.UTC().Format("02/01/2006 15:04")},
		}
		if r.EquipmentID != "" {
			doc.Details = append(doc.Details, Field{"Equipo", r.EquipmentID})
		}
	default:
		return fmt.Errorf("%w: tipo %q sin historial", domain.ErrValidation, kind)
	}
	return nil
}

// actorName resuelve un ID a nombre con caché por documento; si no se puede, deja el ID.
func (uc *HistoryReportUseCase) actorName(ctx context.Context, cache map[string]string, id string) string {
	if id == "" {
		return "—"
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := id
	if u, err := uc.userRepo.GetByID(ctx, id); err == nil && u != nil {
		name = displayName(u)
	}
	cache[id] = name
	return name
}

func displayName(u *entity.User) string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
