package dao_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/neonvault/dao"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/test/mock"
)

var objectColumns = []string{"id", "r2_key", "owner_sub", "owner_email", "filename", "content_type", "size_bytes", "sha256_hex", "tags_json", "created_at", "updated_at"}

func TestGetObjectByID(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sqlMock.ExpectQuery(`SELECT \* FROM "objects" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(objectColumns).
			AddRow("obj-1", "u1/obj-1/a.txt", "u1", nil, "a.txt", "text/plain", 3, nil, "[]", created, created))

	obj, err := dao.NewObjectDAO(gdb).GetObjectByID(context.Background(), "obj-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", obj.OwnerSub)
	assert.Equal(t, "u1/obj-1/a.txt", obj.R2Key)
	assert.Equal(t, int64(3), obj.SizeBytes)
	assert.Nil(t, obj.OwnerEmail)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetObjectByIDNotFound(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectQuery(`SELECT \* FROM "objects" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(objectColumns))

	obj, err := dao.NewObjectDAO(gdb).GetObjectByID(context.Background(), "missing")
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
}

func TestGetObjectByIDDatabaseError(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectQuery(`SELECT \* FROM "objects"`).WillReturnError(errors.New("connection reset"))

	_, err := dao.NewObjectDAO(gdb).GetObjectByID(context.Background(), "obj-1")
	assert.ErrorIs(t, err, vault_errors.ErrDatabaseOperation)
}

func TestCreateObject(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectExec(`INSERT INTO "objects"`).WillReturnResult(sqlmock.NewResult(0, 1))

	obj := &model.ObjectMetadata{ID: "obj-1", R2Key: "u1/obj-1/a.txt", OwnerSub: "u1", Filename: "a.txt", ContentType: "text/plain", SizeBytes: 3}
	require.NoError(t, dao.NewObjectDAO(gdb).CreateObject(context.Background(), obj))
	assert.False(t, obj.CreatedAt.IsZero())
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateObjectConflict(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectExec(`INSERT INTO "objects"`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := dao.NewObjectDAO(gdb).CreateObject(context.Background(), &model.ObjectMetadata{ID: "obj-1"})
	assert.ErrorIs(t, err, vault_errors.ErrObjectConflict)
}

func TestDeleteObject(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectExec(`DELETE FROM "objects" WHERE id = \$1`).
		WithArgs("obj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(`DELETE FROM "objects" WHERE id = \$1`).
		WithArgs("obj-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	objects := dao.NewObjectDAO(gdb)
	require.NoError(t, objects.DeleteObject(context.Background(), "obj-1"))
	require.NoError(t, objects.DeleteObject(context.Background(), "obj-1"))
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListObjectsByOwner(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sqlMock.ExpectQuery(`SELECT \* FROM "objects" WHERE owner_sub = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(objectColumns).
			AddRow("obj-2", "u1/obj-2/b.txt", "u1", nil, "b.txt", "text/plain", 5, nil, "[]", newer, newer).
			AddRow("obj-1", "u1/obj-1/a.txt", "u1", nil, "a.txt", "text/plain", 3, nil, "[]", older, older))

	objects, err := dao.NewObjectDAO(gdb).ListObjectsByOwner(context.Background(), "u1", 200, 0)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "obj-2", objects[0].ID)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListObjectsByOwnerEmpty(t *testing.T) {
	gdb, sqlMock := mock.NewGormMock(t)
	sqlMock.ExpectQuery(`SELECT \* FROM "objects"`).WillReturnRows(sqlmock.NewRows(objectColumns))

	objects, err := dao.NewObjectDAO(gdb).ListObjectsByOwner(context.Background(), "u1", 200, 0)
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}
