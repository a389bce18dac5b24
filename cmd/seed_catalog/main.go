// seed_catalog carga los catálogos de referencia (departamentos, cargos, géneros)
// desde el export XML institucional, en UTF-8 o ISO-8859-1.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual. Usa la misma configuración
// de base de datos que la API y aplica las migraciones pendientes antes de cargar.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/activos-ti-api/internal/infrastructure/postgres"
	"github.com/jhoicas/activos-ti-api/pkg/config"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_catalog")

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	items, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repo := postgres.NewCatalogRepository(pool)
	counts := map[string]int{}
	for _, it := range items {
		if err := repo.Upsert(ctx, it.Kind, it.Order, it.Item); err != nil {
			log.Fatal().Err(err).Str("kind", it.Kind).Str("code", it.Item.Code).Msg("guardar elemento")
		}
		counts[it.Kind]++
	}
	log.Info().
		Int("departments", counts["department"]).
		Int("positions", counts["position"]).
		Int("genders", counts["gender"]).
		Msg("catálogo cargado")
}
