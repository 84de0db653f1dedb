// Package guard decide si un llamante puede ejecutar una operación privilegiada.
//
// Cada evaluación recorre Unauthenticated -> Authenticated -> {Authorized, Denied}. El rol se
// consulta en el Role Store en cada evaluación; nunca se toma del token ni de una sesión.
package guard

import (
	"context"
	"fmt"

	"github.com/jhoicas/Coins-api/internal/domain"
	"github.com/jhoicas/Coins-api/internal/domain/entity"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// Operation operación sujeta a política.
type Operation string

// Operaciones exclusivas de admin.
const (
	OpCreateUser       Operation = "create_user"
	OpDeleteUser       Operation = "delete_user"
	OpResetPassword    Operation = "reset_password"
	OpChangeEmail      Operation = "change_email"
	OpManageRoles      Operation = "manage_roles"
	OpListUsers        Operation = "list_users"
	OpManageCategories Operation = "manage_categories"
	OpManageCompanies  Operation = "manage_companies"
	OpManageTeams      Operation = "manage_teams"
	OpManageMembership Operation = "manage_membership"
	OpGrantCoins       Operation = "grant_coins"
	OpViewStats        Operation = "view_stats"
)

// Operaciones con alcance.
const (
	OpViewTeamRanking Operation = "view_team_ranking" // manager del equipo
	OpViewTeamRoster  Operation = "view_team_roster"  // manager del equipo
	OpViewOwnBalance  Operation = "view_own_balance"  // el propio usuario
	OpViewOwnHistory  Operation = "view_own_history"  // el propio usuario
	OpViewRanking     Operation = "view_ranking"      // cualquier llamante autenticado
	OpViewCategories  Operation = "view_categories"   // cualquier llamante autenticado
)

var authenticatedOnly = map[Operation]bool{
	OpViewRanking:    true,
	OpViewCategories: true,
}

var adminOnly = map[Operation]bool{
	OpCreateUser:       true,
	OpDeleteUser:       true,
	OpResetPassword:    true,
	OpChangeEmail:      true,
	OpManageRoles:      true,
	OpListUsers:        true,
	OpManageCategories: true,
	OpManageCompanies:  true,
	OpManageTeams:      true,
	OpManageMembership: true,
	OpGrantCoins:       true,
	OpViewStats:        true,
}

// State estado de la evaluación. Authorized y Denied son terminales.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateAuthorized      State = "authorized"
	StateDenied          State = "denied"
)

// Caller identidad resuelta por el proveedor de identidad.
type Caller struct {
	UserID string
	Email  string
}

// Request operación pedida y su sujeto.
type Request struct {
	Op        Operation
	SubjectID string // usuario consultado (view_own_*)
	TeamID    string // equipo consultado (view_team_*)
}

// Decision resultado de Evaluate. Err es nil solo cuando State == StateAuthorized.
type Decision struct {
	State State
	Role  *entity.RoleAssignment
	Team  *entity.Team // equipo cargado para view_team_*
	Err   error
}

// Allowed indica si la operación puede continuar.
func (d Decision) Allowed() bool { return d.State == StateAuthorized }

// RoleReader lectura del Role Store.
type RoleReader interface {
	Get(ctx context.Context, userID string) (*entity.RoleAssignment, error)
}

// TeamReader lectura del Org Hierarchy Store.
type TeamReader interface {
	GetByID(ctx context.Context, id string) (*entity.Team, error)
}

// DecisionRecorder recibe cada decisión tomada (métricas).
type DecisionRecorder interface {
	RecordDecision(op string, state string)
}

// Guard evalúa las políticas por rol y alcance.
type Guard struct {
	roles    RoleReader
	teams    TeamReader
	recorder DecisionRecorder
	log      *logger.Logger
}

// Option configura el Guard.
type Option func(*Guard)

// WithRecorder registra cada decisión en r.
func WithRecorder(r DecisionRecorder) Option { return func(g *Guard) { g.recorder = r } }

// WithLogger registra las denegaciones a nivel debug.
func WithLogger(l *logger.Logger) Option { return func(g *Guard) { g.log = l } }

// New construye el Guard.
func New(roles RoleReader, teams TeamReader, opts ...Option) *Guard {
	g := &Guard{roles: roles, teams: teams, log: logger.Nop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Authorize devuelve nil si la operación está permitida, o el error de la decisión.
func (g *Guard) Authorize(ctx context.Context, caller *Caller, req Request) error {
	return g.Evaluate(ctx, caller, req).Err
}

// Evaluate ejecuta la máquina de estados de autorización para una petición.
func (g *Guard) Evaluate(ctx context.Context, caller *Caller, req Request) Decision {
	d := g.evaluate(ctx, caller, req)
	if g.recorder != nil {
		g.recorder.RecordDecision(string(req.Op), string(d.State))
	}
	if !d.Allowed() {
		ev := g.log.Debug().Str("operation", string(req.Op)).Str("state", string(d.State)).Err(d.Err)
		if caller != nil {
			ev = ev.Str("caller_id", caller.UserID)
		}
		ev.Msg("operación denegada")
	}
	return d
}

func (g *Guard) evaluate(ctx context.Context, caller *Caller, req Request) Decision {
	if caller == nil || caller.UserID == "" {
		return Decision{State: StateUnauthenticated, Err: fmt.Errorf("%w: credencial requerida", domain.ErrUnauthenticated)}
	}

	// Authenticated: se resuelve el rol vigente.
	role, err := g.roles.Get(ctx, caller.UserID)
	if err != nil {
		return Decision{State: StateDenied, Err: fmt.Errorf("consultar rol: %w", err)}
	}

	if authenticatedOnly[req.Op] {
		return Decision{State: StateAuthorized, Role: role}
	}
	if role == nil || !entity.IsValidRole(role.Role) {
		return deny(role, "el usuario no tiene rol asignado")
	}

	switch {
	case adminOnly[req.Op]:
		if role.Role == entity.RoleAdmin {
			return Decision{State: StateAuthorized, Role: role}
		}
		return deny(role, "operación exclusiva de administradores")

	case req.Op == OpViewTeamRanking || req.Op == OpViewTeamRoster:
		return g.teamScope(ctx, caller, role, req.TeamID)

	case req.Op == OpViewOwnBalance || req.Op == OpViewOwnHistory:
		if role.Role == entity.RoleAdmin || (req.SubjectID != "" && req.SubjectID == caller.UserID) {
			return Decision{State: StateAuthorized, Role: role}
		}
		return deny(role, "solo puede consultar sus propios datos")
	}
	return deny(role, fmt.Sprintf("operación desconocida %q", req.Op))
}

func (g *Guard) teamScope(ctx context.Context, caller *Caller, role *entity.RoleAssignment, teamID string) Decision {
	if role.Role != entity.RoleAdmin && role.Role != entity.RoleManager {
		return deny(role, "se requiere rol manager")
	}
	team, err := g.teams.GetByID(ctx, teamID)
	if err != nil {
		return Decision{State: StateDenied, Role: role, Err: fmt.Errorf("consultar equipo: %w", err)}
	}
	if team == nil {
		return Decision{State: StateDenied, Role: role, Err: fmt.Errorf("%w: equipo %s", domain.ErrNotFound, teamID)}
	}
	if role.Role == entity.RoleAdmin || team.IsManagedBy(caller.UserID) {
		return Decision{State: StateAuthorized, Role: role, Team: team}
	}
	return deny(role, "no es el gerente de este equipo")
}

func deny(role *entity.RoleAssignment, reason string) Decision {
	return Decision{State: StateDenied, Role: role, Err: fmt.Errorf("%w: %s", domain.ErrForbidden, reason)}
}
