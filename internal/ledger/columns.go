package ledger

// Column headers as they appear in the source workbooks. The ERP export
// and the SM warehouse file disagree on almost every name, so both sets
// are spelled out here rather than guessed at read time.
const (
	ColProductCode = "상품코드"

	// ERP stock sheet
	ColERPRoom        = "호실"
	ColERPProductName = "품목명"
	ColERPQty         = "수량"
	ColERPWgt         = "중량"

	// SM stock sheets
	ColBranch        = "지점명"
	ColSMProductName = "상품명"
	ColQtyBox        = "잔량(박스)"
	ColWgtKG         = "잔량(Kg)"
	ColReceiptNumber = "번호"
	ColExpiryDate    = "소비기한"
	ColReceiptDate   = "입고일자"
	ColRemainingDays = "잔여일수"
	ColInitialBox    = "Box"
	ColInitialKG     = "입고(Kg)"

	// trade log sheets; the product name headers really do carry the
	// extra spaces in the source files
	ColSalesDate        = "매출일자"
	ColSalesProductName = "상  품  명"
	ColSalesQtyBox      = "수량(Box)"
	ColSalesQtyKG       = "수량(Kg)"
	ColSalesBranch      = "지점명"

	ColPurchaseDate        = "매입일자"
	ColPurchaseCode        = "코드"
	ColPurchaseProductName = "상 품 명"
	ColPurchaseBranch      = "지 점 명"
	ColPurchaseQtyBox      = "Box"
	ColPurchaseQtyKG       = "Kg"

	ColCounterparty = "거래처명"
)

// Sheet names inside the trade log workbook.
const (
	SheetSales    = "s-list"
	SheetPurchase = "p-list"
)
