package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
)

const timeLayout = "2006-01-02 15:04"

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func pageFooter(out io.Writer, total, page, size int) {
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	fmt.Fprintf(out, "página %d/%d · %d en total\n", page, pages, total)
}

func printUser(out io.Writer, u *dto.UserResponse) {
	w := table(out)
	fmt.Fprintf(w, "id\t%s\n", u.ID)
	fmt.Fprintf(w, "email\t%s\n", u.Email)
	fmt.Fprintf(w, "nombre\t%s\n", u.FullName)
	fmt.Fprintf(w, "rol\t%s\n", u.Role)
	fmt.Fprintf(w, "departamento\t%s\n", u.Department)
	fmt.Fprintf(w, "activo\t%t\n", u.IsActive)
	w.Flush()
}

func printEquipmentList(out io.Writer, l *dto.ListResponse[dto.EquipmentResponse]) {
	w := table(out)
	fmt.Fprintln(w, "ID\tTIPO\tMODELO\tSERIAL\tDEPTO\tESTADO")
	for _, e := range l.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Type, e.Model, e.Serial, e.Department, e.Status)
	}
	w.Flush()
	pageFooter(out, l.Total, l.Page, l.PageSize)
}

func printEquipment(out io.Writer, e *dto.EquipmentResponse) {
	w := table(out)
	fmt.Fprintf(w, "id\t%s\n", e.ID)
	fmt.Fprintf(w, "tipo\t%s\n", e.Type)
	fmt.Fprintf(w, "modelo\t%s\n", e.Model)
	fmt.Fprintf(w, "serial\t%s\n", e.Serial)
	fmt.Fprintf(w, "departamento\t%s\n", e.Department)
	fmt.Fprintf(w, "estado\t%s\n", e.Status)
	fmt.Fprintf(w, "transiciones\t%s\n", strings.Join(e.AllowedTransitions, ", "))
	fmt.Fprintf(w, "actualizado\t%s\n", e.UpdatedAt.Local().Format(timeLayout))
	w.Flush()
}

func printRequestList(out io.Writer, l *dto.ListResponse[dto.ServiceRequestResponse]) {
	w := table(out)
	fmt.Fprintln(w, "ID\tSOLICITANTE\tEQUIPO\tESTADO\tDESCRIPCIÓN")
	for _, r := range l.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.RequesterID, dash(r.EquipmentID), r.Status, truncate(r.Description, 48))
	}
	w.Flush()
	pageFooter(out, l.Total, l.Page, l.PageSize)
}

func printRequest(out io.Writer, r *dto.ServiceRequestResponse) {
	w := table(out)
	fmt.Fprintf(w, "id\t%s\n", r.ID)
	fmt.Fprintf(w, "solicitante\t%s\n", r.RequesterID)
	fmt.Fprintf(w, "equipo\t%s\n", dash(r.EquipmentID))
	fmt.Fprintf(w, "estado\t%s\n", r.Status)
	fmt.Fprintf(w, "descripción\t%s\n", r.Description)
	fmt.Fprintf(w, "transiciones\t%s\n", strings.Join(r.AllowedTransitions, ", "))
	fmt.Fprintf(w, "actualizado\t%s\n", r.UpdatedAt.Local().Format(timeLayout))
	w.Flush()
}

func printHistory(out io.Writer, h *dto.HistoryResponse) {
	w := table(out)
	fmt.Fprintln(w, "#\tFECHA\tACTOR\tDE\tA\tRESULTADO\tNOTA")
	for _, e := range h.Entries {
		result := "aceptada"
		if !e.Accepted {
			result = "denegada"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, e.OccurredAt.Local().Format(timeLayout), dash(e.ActorID),
			dash(e.PriorStatus), dash(e.NewStatus), result, e.Note)
	}
	w.Flush()
}

func printStatistics(out io.Writer, d *dto.DashboardData) {
	fmt.Fprintf(out, "período %s → %s", d.From.Format("2006-01-02"), d.To.Format("2006-01-02"))
	if d.Scoped {
		fmt.Fprint(out, " (solo acciones propias)")
	}
	fmt.Fprintln(out)

	w := table(out)
	printCounts(w, "equipos", d.EquipmentByStatus)
	printCounts(w, "solicitudes", d.RequestsByStatus)
	if d.UsersByRole != nil {
		printCounts(w, "usuarios", d.UsersByRole)
	}
	if d.ActiveUsers != nil && d.InactiveUsers != nil {
		fmt.Fprintf(w, "usuarios activos\t%d\n", *d.ActiveUsers)
		fmt.Fprintf(w, "usuarios inactivos\t%d\n", *d.InactiveUsers)
	}
	logins := 0
	for _, b := range d.LoginsPerDay {
		logins += b.Count
	}
	resolutions := 0
	for _, b := range d.ResolutionsPerWeek {
		resolutions += b.Count
	}
	fmt.Fprintf(w, "logins en el período\t%d\n", logins)
	fmt.Fprintf(w, "resoluciones en el período\t%d\n", resolutions)
	fmt.Fprintf(w, "horas promedio de resolución\t%s\n", d.AvgResolutionHours.StringFixed(2))
	w.Flush()
}

func printCounts(w io.Writer, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	fmt.Fprintf(w, "%s\t%s\n", label, strings.Join(parts, " "))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
