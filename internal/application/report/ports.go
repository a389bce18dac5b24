package report

import (
	"context"
	"time"
)

// HistoryPDFGenerator puerto de generación del PDF del historial de una entidad.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, doc *HistoryDocument) ([]byte, error)
}

// HistoryDocument datos ya resueltos para la representación impresa del historial.
type HistoryDocument struct {
	Title         string  // "Equipo" | "Solicitud de servicio"
	Subject       string  // línea descriptiva: modelo + serial, o la descripción
	EntityKind    string
	EntityID      string
	CurrentStatus string
	Details       []Field // pares etiqueta/valor del encabezado
	Lines         []HistoryLine
	GeneratedAt   time.Time
	GeneratedBy   string
	QRData        string // referencia escaneable a la entidad
}

// Field par etiqueta/valor.
type Field struct {
	Label string
	Value string
}

// HistoryLine una entrada del historial con el actor ya resuelto a nombre.
type HistoryLine struct {
	OccurredAt  time.Time
	Actor       string
	PriorStatus string
	NewStatus   string
	Accepted    bool
	Note        string
}
