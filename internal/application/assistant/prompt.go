package assistant

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
)

// lastProduct is the conversation context carried into the prompt
type lastProduct struct {
	ID   uuid.UUID
	Name string
}

// buildChatPrompt assembles the instruction prompt sent for every chat turn
func buildChatPrompt(products []catalogapp.ProductResponse, last *lastProduct, message string) string {
	var b strings.Builder

	b.WriteString("Você é um assistente inteligente para gerenciamento de produtos.\n\n")
	b.WriteString("Produtos disponíveis no sistema:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- ID: %s | Nome: %s | Preço: R$ %s | Categoria: %s | Estoque: %d\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Category, p.Stock)
	}

	b.WriteString("\n\n🎯 CAPACIDADES DO SISTEMA:\n")
	b.WriteString("1. ADICIONAR produto: Quando o usuário pedir para adicionar/criar/inserir um produto\n")
	b.WriteString("2. ATUALIZAR produto: Quando o usuário pedir para atualizar/modificar/editar um produto\n")
	b.WriteString("3. DELETAR produto: Quando o usuário pedir para deletar/remover/excluir um produto\n")
	b.WriteString("4. LISTAR produtos: Quando o usuário pedir para listar/mostrar produtos\n")
	b.WriteString("5. GERAR RELATÓRIO: Quando o usuário pedir análises ou relatórios\n")
	b.WriteString("6. 📊 GERAR GRÁFICOS: O sistema PODE e VAI gerar gráficos automaticamente!\n")
	b.WriteString("   - Quando o usuário pedir gráficos, confirme que o gráfico será exibido\n")
	b.WriteString("   - Tipos disponíveis: produtos por categoria, distribuição de preços, níveis de estoque, valor por categoria, preço médio\n")
	b.WriteString("   - Exemplo de resposta: 'Claro! Vou gerar o gráfico de produtos por categoria para você. Aqui estão os dados:'\n\n")

	if last != nil {
		b.WriteString("\n🔖 CONTEXTO DA CONVERSA:\n")
		fmt.Fprintf(&b, "Último produto mencionado: %s (ID: %s)\n\n", last.Name, last.ID)
	}

	b.WriteString("IMPORTANTE:\n")
	b.WriteString("- Quando for ADICIONAR um produto, responda no formato JSON:\n")
	b.WriteString(`  {"action": "CREATE", "name": "nome", "description": "desc", "price": 100.00, "category": "Electronics", "stock": 0}` + "\n")
	b.WriteString("- Quando for ATUALIZAR um produto, responda no formato JSON:\n")
	b.WriteString(`  {"action": "UPDATE", "id": "uuid-do-produto", "name": "nome", "description": "desc", "price": 100.00, "category": "categoria", "stock": 10}` + "\n")
	b.WriteString("  * Se o usuário não especificar qual produto, use o ID do último produto mencionado\n")
	b.WriteString("  * Se o usuário só mencionar um campo (ex: estoque), mantenha os outros campos do produto atual\n")
	b.WriteString("- Quando for DELETAR um produto, responda no formato JSON:\n")
	b.WriteString(`  {"action": "DELETE", "id": "uuid"}` + "\n")
	b.WriteString("- Para outras ações, responda normalmente em português de forma amigável.\n\n")

	b.WriteString("Mensagem do usuário: ")
	b.WriteString(message)

	return b.String()
}
