package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
	"github.com/riha-rota/riha-rota/pkg/core/model"
)

func TestWriteMonthWorkbook(t *testing.T) {
	june := model.Month{Year: 2025, Month: time.June}
	north := sheetsclient.BuildMonthGrid("north", june,
		[]model.StaffMember{{ID: "n1", Name: "Sato", Position: model.PositionChief}},
		[]model.ShiftEntry{model.NewWorkingEntry("n1", 1), model.NewLeaveEntry("n1", 2, model.LeavePaid)},
	)
	south := sheetsclient.BuildMonthGrid("south", june,
		[]model.StaffMember{{ID: "s1", Name: "Suzuki", Position: model.PositionGeneral}},
		nil,
	)

	var buf bytes.Buffer
	err := WriteMonthWorkbook(&buf, []Sheet{
		{Grid: north, UnderCovered: []int{2}},
		{Grid: south},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2025-06 north", "2025-06 south"}, f.GetSheetList())

	value := func(sheet, cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Name", value("2025-06 north", "A1"))
	assert.Equal(t, "1(日)", value("2025-06 north", "C1"))
	assert.Equal(t, "Sato", value("2025-06 north", "A2"))
	assert.Equal(t, "出勤", value("2025-06 north", "C2"))
	assert.Equal(t, "有給", value("2025-06 north", "D2"))
	assert.Equal(t, sheetsclient.WorkingCountLabel, value("2025-06 north", "A3"))
	assert.Equal(t, "1", value("2025-06 north", "C3"))
	assert.Equal(t, "0", value("2025-06 north", "D3"))
	assert.Equal(t, "", value("2025-06 south", "C2"))

	plain, err := f.GetCellStyle("2025-06 north", "C3")
	require.NoError(t, err)
	highlighted, err := f.GetCellStyle("2025-06 north", "D3")
	require.NoError(t, err)
	assert.NotEqual(t, plain, highlighted)
}

func TestWriteMonthWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteMonthWorkbook(&buf, nil))
	assert.Zero(t, buf.Len())
}
