package domain

// Scope identifica al tenant y al actor de una operación. Se pasa explícitamente a cada caso de uso;
// no existe estado ambiental por request.
type Scope struct {
	TenantID string
	UserID   string
}

// Validate exige tenant. UserID es opcional (procesos programados no tienen actor).
func (s Scope) Validate() error {
	if s.TenantID == "" {
		return ErrUnauthorized
	}
	return nil
}

// Actor devuelve el usuario o "system" para tareas sin usuario.
func (s Scope) Actor() string {
	if s.UserID == "" {
		return "system"
	}
	return s.UserID
}
