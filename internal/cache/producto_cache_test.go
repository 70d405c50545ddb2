package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"interfaz/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtener_SinRedisCargaSiempre(t *testing.T) {
	c := NewProductoCache(nil, 0)
	var cargas int32
	cargar := func(context.Context) (*dto.ProductoResponse, error) {
		atomic.AddInt32(&cargas, 1)
		return &dto.ProductoResponse{Nombre: "Harina"}, nil
	}

	id := uuid.New()
	for i := 0; i < 2; i++ {
		p, err := c.Obtener(context.Background(), id, cargar)
		require.NoError(t, err)
		assert.Equal(t, "Harina", p.Nombre)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&cargas))
}

func TestObtener_ColapsaCargasConcurrentes(t *testing.T) {
	c := NewProductoCache(nil, time.Minute)
	var cargas int32
	liberar := make(chan struct{})
	cargar := func(context.Context) (*dto.ProductoResponse, error) {
		atomic.AddInt32(&cargas, 1)
		<-liberar
		return &dto.ProductoResponse{Nombre: "Harina"}, nil
	}

	id := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Obtener(context.Background(), id, cargar)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(liberar)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&cargas))
}

func TestObtener_PropagaError(t *testing.T) {
	var c *ProductoCache
	errCarga := errors.New("no encontrado")

	_, err := c.Obtener(context.Background(), uuid.New(), func(context.Context) (*dto.ProductoResponse, error) {
		return nil, errCarga
	})

	assert.ErrorIs(t, err, errCarga)
	c.Invalidar(context.Background(), uuid.New())
}

func TestInvalidar_DesacoplaCargaEnCurso(t *testing.T) {
	c := NewProductoCache(nil, time.Minute)
	id := uuid.New()
	empezo := make(chan struct{})
	liberar := make(chan struct{})

	vieja := make(chan *dto.ProductoResponse, 1)
	go func() {
		p, _ := c.Obtener(context.Background(), id, func(context.Context) (*dto.ProductoResponse, error) {
			close(empezo)
			<-liberar
			return &dto.ProductoResponse{Nombre: "antes del commit"}, nil
		})
		vieja <- p
	}()
	<-empezo

	antes := c.generacion(clave(id))
	c.Invalidar(context.Background(), id)
	assert.NotEqual(t, antes, c.generacion(clave(id)))

	nueva := make(chan *dto.ProductoResponse, 1)
	go func() {
		p, _ := c.Obtener(context.Background(), id, func(context.Context) (*dto.ProductoResponse, error) {
			return &dto.ProductoResponse{Nombre: "despues del commit"}, nil
		})
		nueva <- p
	}()

	select {
	case p := <-nueva:
		assert.Equal(t, "despues del commit", p.Nombre)
	case <-time.After(2 * time.Second):
		t.Fatal("la lectura posterior quedó esperando la carga invalidada")
	}

	close(liberar)
	assert.Equal(t, "antes del commit", (<-vieja).Nombre)
}

func TestInvalidar_SoloAfectaLasClavesIndicadas(t *testing.T) {
	c := NewProductoCache(nil, time.Minute)
	a, b := uuid.New(), uuid.New()

	c.Invalidar(context.Background(), a)
	c.Invalidar(context.Background(), a)

	assert.Equal(t, uint64(2), c.generacion(clave(a)))
	assert.Zero(t, c.generacion(clave(b)))
}
