package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"interfaz/internal/dto"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conectar(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Atender(conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_PublicarStock(t *testing.T) {
	hub := NewHub()
	conn := conectar(t, hub)
	require.Eventually(t, func() bool { return hub.Clientes() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PublicarStock(dto.EventoStock{
		ProductoID: "p1",
		Nombre:     "Harina",
		Stock:      decimal.NewFromInt(3),
		Estado:     "Activo",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev dto.EventoStock
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "p1", ev.ProductoID)
	assert.True(t, ev.Stock.Equal(decimal.NewFromInt(3)))
}

func TestHub_DesconexionQuitaCliente(t *testing.T) {
	hub := NewHub()
	conn := conectar(t, hub)
	require.Eventually(t, func() bool { return hub.Clientes() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Clientes() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SinClientesNoBloquea(t *testing.T) {
	hub := NewHub()
	hub.PublicarStock(dto.EventoStock{ProductoID: "p1"})
	assert.Zero(t, hub.Clientes())
}
