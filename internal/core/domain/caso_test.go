package domain

import "testing"

func TestEstadoAsignable(t *testing.T) {
	for _, e := range []Estado{EstadoCargado, EstadoSupervisado, EstadoEnDesarrollo} {
		if !e.Asignable() {
			t.Errorf("%s should be assignable through the ordinary path", e)
		}
	}
	if EstadoEntregado.Asignable() {
		t.Errorf("Entregado must not be assignable through the ordinary path")
	}
	if Estado("Pendiente").Asignable() {
		t.Errorf("unknown estado must not be assignable")
	}
}

func TestEstadoTerminal(t *testing.T) {
	if !EstadoEntregado.Terminal() {
		t.Fatalf("Entregado must be terminal")
	}
	for _, e := range []Estado{EstadoCargado, EstadoSupervisado, EstadoEnDesarrollo} {
		if e.Terminal() {
			t.Errorf("%s must not be terminal", e)
		}
	}
}
