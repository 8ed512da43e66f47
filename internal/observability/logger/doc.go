// Package logger provee un logger Zap singleton con scoping por contexto.
//
// # Decisiones
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Scoping: cada request (o cada resolución de eager-loading) puede llevar un
//     logger propio con campos extra (request_id, element_id, field_context) sin
//     crear un core nuevo.
//   - Entornos: "dev" usa consola con colores, "prod" usa JSON.
//
// # Uso
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx)
//	log.Debug("owner resolved", logger.ElementID(owner.ID))
package logger
