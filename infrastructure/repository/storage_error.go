package repository

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// StorageError marca uma falha de persistência. O orquestrador trata esse
// tipo como crítico: aborta a execução na fase 1 e os recortes restantes da
// conta na fase 2.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if pqErr, ok := e.Err.(*pq.Error); ok {
		return fmt.Sprintf("erro de armazenamento em %s: %s (código %s)", e.Op, pqErr.Message, pqErr.Code)
	}
	return fmt.Sprintf("erro de armazenamento em %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError embala um erro de banco na operação informada.
// Retorna nil quando err é nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError verifica se o erro (ou algum erro embrulhado) é de
// armazenamento.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
