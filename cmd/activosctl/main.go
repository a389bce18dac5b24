// activosctl cliente de línea de comandos de la API de activos TI.
//
// Uso:
//
//	activosctl login --email ana@inst.edu --password ...
//	activosctl equipment list --status damaged
//	activosctl requests transition <id> --to in_process
//
// La URL de la API sale de ACTIVOS_API_URL (por defecto http://localhost:8080) y la
// sesión se guarda en ACTIVOS_SESSION_FILE (por defecto ~/.activos-ti/session.json).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/viper"

	"github.com/jhoicas/activos-ti-api/pkg/client"
	"github.com/jhoicas/activos-ti-api/pkg/session"
)

func main() {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ACTIVOS_API_URL", "http://localhost:8080")
	v.SetDefault("ACTIVOS_SESSION_FILE", defaultSessionFile())

	holder := session.NewHolder(v.GetString("ACTIVOS_SESSION_FILE"))
	if err := holder.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "advertencia:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &cli{
		api:     client.New(v.GetString("ACTIVOS_API_URL"), holder),
		session: holder,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".activos-ti-session.json"
	}
	return filepath.Join(home, ".activos-ti", "session.json")
}
