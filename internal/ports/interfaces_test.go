package ports_test

import (
	"github.com/emiliopalmerini/abadmin/internal/adapters/memory"
	"github.com/emiliopalmerini/abadmin/internal/adapters/mongodb"
	"github.com/emiliopalmerini/abadmin/internal/adapters/otel"
	"github.com/emiliopalmerini/abadmin/internal/adapters/turso"
	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// Compile-time checks that every adapter satisfies its port.
var (
	_ ports.ExperimentRepository  = (*turso.ExperimentRepository)(nil)
	_ ports.VariantRepository     = (*turso.VariantRepository)(nil)
	_ ports.ParticipantRepository = (*turso.ParticipantRepository)(nil)
	_ ports.UserRepository        = (*turso.UserRepository)(nil)
	_ ports.FunnelEventRepository = (*turso.FunnelEventRepository)(nil)

	_ ports.ExperimentRepository  = (*mongodb.ExperimentRepository)(nil)
	_ ports.VariantRepository     = (*mongodb.VariantRepository)(nil)
	_ ports.ParticipantRepository = (*mongodb.ParticipantRepository)(nil)
	_ ports.UserRepository        = (*mongodb.UserRepository)(nil)
	_ ports.FunnelEventRepository = (*mongodb.FunnelEventRepository)(nil)

	_ ports.ExperimentRepository  = (*memory.ExperimentRepository)(nil)
	_ ports.VariantRepository     = (*memory.VariantRepository)(nil)
	_ ports.ParticipantRepository = (*memory.ParticipantRepository)(nil)
	_ ports.UserRepository        = (*memory.UserRepository)(nil)
	_ ports.FunnelEventRepository = (*memory.FunnelEventRepository)(nil)

	_ ports.MetricsRecorder = (*otel.Exporter)(nil)
	_ ports.MetricsRecorder = (*otel.NoOpExporter)(nil)
)
