package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/pkg/client"
	"github.com/jhoicas/activos-ti-api/pkg/session"
)

const usage = `uso: activosctl <comando> [argumentos]

comandos:
  login --email <email> [--password <password>]
  logout
  whoami
  equipment list [--status s] [--department d] [--type t] [--page n] [--page-size n]
  equipment get <id>
  equipment create --type t --model m --serial s --department d
  equipment transition <id> --to <estado> [--expected <estado>] [--note texto]
  equipment history <id> [--pdf archivo.pdf]
  requests list [--status s] [--requester id] [--equipment id] [--page n] [--page-size n]
  requests get <id>
  requests create --description texto [--equipment id]
  requests transition <id> --to <estado> [--expected <estado>] [--note texto]
  stats [--from YYYY-MM-DD] [--to YYYY-MM-DD]
`

var errUsage = errors.New("argumentos inválidos (activosctl help)")

// cli estado del comando: cliente, sesión y salida.
type cli struct {
	api     *client.Client
	session *session.Holder
	in      io.Reader
	out     io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return errUsage
	}
	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami(ctx)
	case "equipment":
		return c.equipment(ctx, args[1:])
	case "requests":
		return c.requests(ctx, args[1:])
	case "stats":
		return c.stats(ctx, args[1:])
	}
	return fmt.Errorf("comando desconocido %q: %w", args[0], errUsage)
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse separa flags de argumentos posicionales y exige exactamente nPos de estos.
func parse(fs *pflag.FlagSet, args []string, nPos int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", fs.Name(), err, errUsage)
	}
	if fs.NArg() != nPos {
		return nil, fmt.Errorf("%s: se esperaban %d argumentos: %w", fs.Name(), nPos, errUsage)
	}
	return fs.Args(), nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%s es obligatorio: %w", name, errUsage)
	}
	return nil
}

// ── Sesión ────────────────────────────────────────────────────────────────────

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (si falta se lee de la entrada estándar)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := required("email", *email); err != nil {
		return err
	}
	if *password == "" {
		fmt.Fprint(c.out, "password: ")
		line, err := bufio.NewReader(c.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("leer password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
		fmt.Fprintln(c.out)
	}

	res, err := c.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := c.session.Set(session.Session{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: session.User{
			ID:       res.User.ID,
			Email:    res.User.Email,
			Role:     res.User.Role,
			FullName: res.User.FullName,
		},
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "sesión iniciada: %s (%s), expira %s\n", res.User.Email, res.User.Role, res.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if c.session.Current() == nil {
		fmt.Fprintln(c.out, "no hay sesión activa")
		return nil
	}
	err := c.api.Logout(ctx)
	var apiErr *client.APIError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.Code == "UNAUTHENTICATED") {
		return err
	}
	if err := c.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "sesión cerrada")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	if c.session.Current() == nil {
		return errors.New("no hay sesión activa (activosctl login)")
	}
	me, err := c.api.Me(ctx)
	if err != nil {
		return err
	}
	printUser(c.out, me)
	return nil
}

// ── Equipos ───────────────────────────────────────────────────────────────────

func (c *cli) equipment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		fs := newFlags("equipment list")
		var q dto.EquipmentListQuery
		fs.StringVar(&q.Status, "status", "", "estado")
		fs.StringVar(&q.Department, "department", "", "departamento")
		fs.StringVar(&q.Type, "type", "", "tipo")
		page := pageFlags(fs)
		if _, err := parse(fs, args, 0); err != nil {
			return err
		}
		out, err := c.api.ListEquipment(ctx, q, *page)
		if err != nil {
			return err
		}
		printEquipmentList(c.out, out)
		return nil

	case "get":
		pos, err := parse(newFlags("equipment get"), args, 1)
		if err != nil {
			return err
		}
		out, err := c.api.GetEquipment(ctx, pos[0])
		if err != nil {
			return err
		}
		printEquipment(c.out, out)
		return nil

	case "create":
		fs := newFlags("equipment create")
		var in dto.CreateEquipmentRequest
		fs.StringVar(&in.Type, "type", "", "tipo")
		fs.StringVar(&in.Model, "model", "", "modelo")
		fs.StringVar(&in.Serial, "serial", "", "serial")
		fs.StringVar(&in.Department, "department", "", "departamento")
		if _, err := parse(fs, args, 0); err != nil {
			return err
		}
		out, err := c.api.CreateEquipment(ctx, in)
		if err != nil {
			return err
		}
		printEquipment(c.out, out)
		return nil

	case "transition":
		fs := newFlags("equipment transition")
		in := transitionFlags(fs)
		pos, err := parse(fs, args, 1)
		if err != nil {
			return err
		}
		if err := required("to", in.Status); err != nil {
			return err
		}
		out, err := c.api.TransitionEquipment(ctx, pos[0], *in)
		if err != nil {
			return err
		}
		printEquipment(c.out, out)
		return nil

	case "history":
		fs := newFlags("equipment history")
		pdfPath := fs.String("pdf", "", "guardar el historial en PDF")
		pos, err := parse(fs, args, 1)
		if err != nil {
			return err
		}
		if *pdfPath != "" {
			doc, err := c.api.EquipmentHistoryPDF(ctx, pos[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(*pdfPath, doc, 0o644); err != nil {
				return fmt.Errorf("guardar PDF: %w", err)
			}
			fmt.Fprintf(c.out, "historial guardado en %s\n", *pdfPath)
			return nil
		}
		out, err := c.api.EquipmentHistory(ctx, pos[0])
		if err != nil {
			return err
		}
		printHistory(c.out, out)
		return nil
	}
	return fmt.Errorf("equipment %s: %w", sub, errUsage)
}

// ── Solicitudes ───────────────────────────────────────────────────────────────

func (c *cli) requests(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		fs := newFlags("requests list")
		var q dto.ServiceRequestListQuery
		fs.StringVar(&q.Status, "status", "", "estado")
		fs.StringVar(&q.RequesterID, "requester", "", "solicitante")
		fs.StringVar(&q.EquipmentID, "equipment", "", "equipo")
		page := pageFlags(fs)
		if _, err := parse(fs, args, 0); err != nil {
			return err
		}
		out, err := c.api.ListRequests(ctx, q, *page)
		if err != nil {
			return err
		}
		printRequestList(c.out, out)
		return nil

	case "get":
		pos, err := parse(newFlags("requests get"), args, 1)
		if err != nil {
			return err
		}
		out, err := c.api.GetRequest(ctx, pos[0])
		if err != nil {
			return err
		}
		printRequest(c.out, out)
		return nil

	case "create":
		fs := newFlags("requests create")
		var in dto.CreateServiceRequest
		fs.StringVar(&in.Description, "description", "", "descripción del problema")
		fs.StringVar(&in.EquipmentID, "equipment", "", "equipo afectado")
		if _, err := parse(fs, args, 0); err != nil {
			return err
		}
		out, err := c.api.CreateRequest(ctx, in)
		if err != nil {
			return err
		}
		printRequest(c.out, out)
		return nil

	case "transition":
		fs := newFlags("requests transition")
		in := transitionFlags(fs)
		pos, err := parse(fs, args, 1)
		if err != nil {
			return err
		}
		if err := required("to", in.Status); err != nil {
			return err
		}
		out, err := c.api.TransitionRequest(ctx, pos[0], *in)
		if err != nil {
			return err
		}
		printRequest(c.out, out)
		return nil
	}
	return fmt.Errorf("requests %s: %w", sub, errUsage)
}

// ── Estadísticas ──────────────────────────────────────────────────────────────

func (c *cli) stats(ctx context.Context, args []string) error {
	fs := newFlags("stats")
	var q dto.StatisticsQuery
	fs.StringVar(&q.From, "from", "", "desde (YYYY-MM-DD)")
	fs.StringVar(&q.To, "to", "", "hasta, exclusiva (YYYY-MM-DD)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	out, err := c.api.Statistics(ctx, q)
	if err != nil {
		return err
	}
	printStatistics(c.out, out)
	return nil
}

func pageFlags(fs *pflag.FlagSet) *dto.PageRequest {
	p := &dto.PageRequest{}
	fs.IntVar(&p.Page, "page", dto.DefaultPage, "página")
	fs.IntVar(&p.PageSize, "page-size", dto.DefaultPageSize, "tamaño de página")
	return p
}

func transitionFlags(fs *pflag.FlagSet) *dto.TransitionRequest {
	in := &dto.TransitionRequest{}
	fs.StringVar(&in.Status, "to", "", "estado destino")
	fs.StringVar(&in.ExpectedStatus, "expected", "", "estado observado; si cambió, la API responde CONFLICT")
	fs.StringVar(&in.Note, "note", "", "nota para el historial")
	return in
}
